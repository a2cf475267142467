package form

import (
	"errors"
	"net/url"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  models.PluginRequest
		want []string
	}{
		{
			name: "complete request",
			req:  models.PluginRequest{Title: "Quotes", Description: "Random quotes", Category: models.CategoryWidget},
		},
		{
			name: "unknown category is accepted",
			req:  models.PluginRequest{Title: "Quotes", Description: "Random quotes", Category: "gizmo"},
		},
		{
			name: "empty title",
			req:  models.PluginRequest{Description: "Random quotes", Category: models.CategoryWidget},
			want: []string{MsgMissingTitle},
		},
		{
			name: "whitespace title",
			req:  models.PluginRequest{Title: "   ", Description: "Random quotes", Category: models.CategoryWidget},
			want: []string{MsgMissingTitle},
		},
		{
			name: "title without letters or digits",
			req:  models.PluginRequest{Title: "!!!", Description: "Random quotes", Category: models.CategoryWidget},
			want: []string{MsgUnsluggableTitle},
		},
		{
			name: "empty description",
			req:  models.PluginRequest{Title: "Quotes", Description: "\n\t", Category: models.CategoryWidget},
			want: []string{MsgMissingDescription},
		},
		{
			name: "missing category",
			req:  models.PluginRequest{Title: "Quotes", Description: "Random quotes"},
			want: []string{MsgMissingCategory},
		},
		{
			name: "everything missing keeps form order",
			req:  models.PluginRequest{},
			want: []string{MsgMissingTitle, MsgMissingDescription, MsgMissingCategory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.want, verrs.Messages())
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{
		{Field: "title", Message: MsgMissingTitle},
		{Field: "type", Message: MsgMissingCategory},
	}
	assert.Equal(t, "Please provide a plugin title; Please select a plugin type", err.Error())
}

func TestFromQuery(t *testing.T) {
	q, err := url.ParseQuery("template=related-posts&type=widget&title=Related+Posts&description=Shows+related+posts")
	require.NoError(t, err)

	req := FromQuery(q)
	assert.Equal(t, models.PluginRequest{
		Title:       "Related Posts",
		Description: "Shows related posts",
		Category:    models.CategoryWidget,
		TemplateID:  "related-posts",
	}, req)
}

func TestFromQuery_Empty(t *testing.T) {
	req := FromQuery(url.Values{})
	assert.Equal(t, models.PluginRequest{}, req)
	assert.Error(t, Validate(req))
}

func TestMerge(t *testing.T) {
	flags := models.PluginRequest{Title: "From Flags"}
	fallback := models.PluginRequest{Title: "From Query", Description: "desc", Category: models.CategoryAdmin, TemplateID: "t1"}

	got := Merge(flags, fallback)
	assert.Equal(t, "From Flags", got.Title)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, models.CategoryAdmin, got.Category)
	assert.Equal(t, "t1", got.TemplateID)
}

// scripted answers prompts by their message
func scripted(answers map[string]string, asked *[]string) AskFunc {
	return func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		var message string
		switch prompt := p.(type) {
		case *survey.Input:
			message = prompt.Message
		case *survey.Select:
			message = prompt.Message
		case *survey.Multiline:
			message = prompt.Message
		}
		*asked = append(*asked, message)

		answer, ok := answers[message]
		if !ok {
			return errors.New("unexpected prompt " + message)
		}
		*response.(*string) = answer
		return nil
	}
}

func TestPrompt_AsksMissingFields(t *testing.T) {
	var asked []string
	p := &Prompter{Ask: scripted(map[string]string{
		"Plugin Name":          "Quote Rotator",
		"Plugin Type":          "Admin Enhancement",
		"Describe Your Plugin": "Rotates quotes",
	}, &asked)}

	req, err := p.Prompt(models.PluginRequest{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Plugin Name", "Plugin Type", "Describe Your Plugin"}, asked)
	assert.Equal(t, "Quote Rotator", req.Title)
	assert.Equal(t, models.CategoryAdmin, req.Category)
	assert.Equal(t, "Rotates quotes", req.Description)
}

func TestPrompt_KeepsProvidedFields(t *testing.T) {
	var asked []string
	p := &Prompter{Ask: scripted(map[string]string{
		"Describe Your Plugin": "Rotates quotes",
	}, &asked)}

	req, err := p.Prompt(models.PluginRequest{Title: "Quote Rotator", Category: models.CategoryWidget})
	require.NoError(t, err)

	assert.Equal(t, []string{"Describe Your Plugin"}, asked)
	assert.Equal(t, models.CategoryWidget, req.Category)
}

func TestPrompt_PropagatesInterrupt(t *testing.T) {
	p := &Prompter{Ask: func(survey.Prompt, interface{}, ...survey.AskOpt) error {
		return errors.New("interrupt")
	}}

	_, err := p.Prompt(models.PluginRequest{})
	assert.ErrorContains(t, err, "failed to read plugin name")
}

func TestTitleValidator(t *testing.T) {
	assert.NoError(t, titleValidator("Quotes"))
	assert.EqualError(t, titleValidator(""), MsgMissingTitle)
	assert.EqualError(t, titleValidator("???"), MsgUnsluggableTitle)
}

func TestCategoryForLabel(t *testing.T) {
	assert.Equal(t, models.CategoryEcommerce, categoryForLabel("E-Commerce"))
	assert.Equal(t, models.CategoryContent, categoryForLabel("content"))
	assert.Equal(t, models.Category("other"), categoryForLabel("other"))
}
