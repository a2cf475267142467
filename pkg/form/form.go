// Package form collects and validates plugin requests from flags, query
// strings and interactive prompts.
package form

import (
	"net/url"
	"strings"

	"github.com/plugingenius/plugingenius-cli/pkg/generator"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

const (
	MsgMissingTitle       = "Please provide a plugin title"
	MsgMissingDescription = "Please describe what your plugin should do"
	MsgMissingCategory    = "Please select a plugin type"
	MsgUnsluggableTitle   = "Plugin name must contain letters or digits"
)

// FieldError is one user facing validation message
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationErrors lists every problem found in a request, in form order
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Messages returns just the message strings
func (v ValidationErrors) Messages() []string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return msgs
}

// Validate checks that title, description and category are present. A
// category outside the known six is allowed and falls back at generation.
func Validate(req models.PluginRequest) error {
	var errs ValidationErrors

	switch {
	case strings.TrimSpace(req.Title) == "":
		errs = append(errs, FieldError{Field: "title", Message: MsgMissingTitle})
	case generator.Slug(req.Title) == "":
		errs = append(errs, FieldError{Field: "title", Message: MsgUnsluggableTitle})
	}

	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, FieldError{Field: "description", Message: MsgMissingDescription})
	}

	if strings.TrimSpace(string(req.Category)) == "" {
		errs = append(errs, FieldError{Field: "type", Message: MsgMissingCategory})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FromQuery builds a request from the create page query parameters
func FromQuery(q url.Values) models.PluginRequest {
	return models.PluginRequest{
		Title:       q.Get("title"),
		Description: q.Get("description"),
		Category:    models.Category(q.Get("type")),
		TemplateID:  q.Get("template"),
	}
}

// Merge fills empty fields of req from fallback. Flags win over prompts
// and prompts win over defaults.
func Merge(req, fallback models.PluginRequest) models.PluginRequest {
	if req.Title == "" {
		req.Title = fallback.Title
	}
	if req.Description == "" {
		req.Description = fallback.Description
	}
	if req.Category == "" {
		req.Category = fallback.Category
	}
	if req.TemplateID == "" {
		req.TemplateID = fallback.TemplateID
	}
	return req
}
