package form

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/plugingenius/plugingenius-cli/pkg/generator"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// AskFunc matches survey.AskOne so tests can script answers
type AskFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// Prompter asks for the request fields that are still empty
type Prompter struct {
	Ask AskFunc
}

// NewPrompter returns a prompter backed by the terminal
func NewPrompter() *Prompter {
	return &Prompter{Ask: survey.AskOne}
}

// Prompt collects the missing fields of initial interactively. Fields that
// are already set are kept and not asked again.
func (p *Prompter) Prompt(initial models.PluginRequest) (models.PluginRequest, error) {
	req := initial

	if req.TemplateID != "" {
		fmt.Println("Using template as a starting point. Feel free to modify the details.")
	}

	if req.Title == "" {
		prompt := &survey.Input{
			Message: "Plugin Name",
			Help:    "For example: My Amazing Plugin",
		}
		if err := p.Ask(prompt, &req.Title, survey.WithValidator(titleValidator)); err != nil {
			return req, fmt.Errorf("failed to read plugin name: %w", err)
		}
	}

	if req.Category == "" {
		labels := make([]string, len(models.Categories))
		for i, c := range models.Categories {
			labels[i] = c.Label()
		}

		var label string
		prompt := &survey.Select{
			Message: "Plugin Type",
			Options: labels,
		}
		if err := p.Ask(prompt, &label, survey.WithValidator(survey.Required)); err != nil {
			return req, fmt.Errorf("failed to read plugin type: %w", err)
		}
		req.Category = categoryForLabel(label)
	}

	if req.Description == "" {
		prompt := &survey.Multiline{
			Message: "Describe Your Plugin",
			Help: "Describe what you want your plugin to do in plain English. For example: " +
				"'I want a plugin that displays a random quote from a list in the sidebar'",
		}
		if err := p.Ask(prompt, &req.Description, survey.WithValidator(requiredMessage(MsgMissingDescription))); err != nil {
			return req, fmt.Errorf("failed to read plugin description: %w", err)
		}
	}

	return req, nil
}

func categoryForLabel(label string) models.Category {
	for _, c := range models.Categories {
		if c.Label() == label || string(c) == label {
			return c
		}
	}
	return models.Category(label)
}

func titleValidator(val interface{}) error {
	if err := requiredMessage(MsgMissingTitle)(val); err != nil {
		return err
	}
	if s, _ := val.(string); generator.Slug(s) == "" {
		return fmt.Errorf("%s", MsgUnsluggableTitle)
	}
	return nil
}

func requiredMessage(message string) survey.Validator {
	return func(val interface{}) error {
		if err := survey.Required(val); err != nil {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}
