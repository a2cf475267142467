// Package templates is the catalog of starter plugins offered as a
// starting point for a request.
package templates

import (
	"fmt"
	"strings"

	"github.com/plugingenius/plugingenius-cli/pkg/form"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// Template is one starter plugin
type Template struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Category    models.Category `json:"type" yaml:"type"`
	Image       string          `json:"image,omitempty" yaml:"image,omitempty"`
}

// Request returns the prefilled request for t
func (t Template) Request() models.PluginRequest {
	return models.PluginRequest{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		TemplateID:  t.ID,
	}
}

var catalog = []Template{
	{
		ID:          "social-share",
		Title:       "Social Share Buttons",
		Description: "Add customizable social sharing buttons to your posts and pages",
		Category:    models.CategoryContent,
		Image:       "https://images.pexels.com/photos/7516363/pexels-photo-7516363.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
	},
	{
		ID:          "related-posts",
		Title:       "Related Posts Widget",
		Description: "Display related posts based on categories or tags",
		Category:    models.CategoryWidget,
		Image:       "https://images.pexels.com/photos/6177645/pexels-photo-6177645.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
	},
	{
		ID:          "contact-form",
		Title:       "Simple Contact Form",
		Description: "Add a customizable contact form via shortcode",
		Category:    models.CategoryShortcode,
		Image:       "https://images.pexels.com/photos/4348401/pexels-photo-4348401.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
	},
	{
		ID:          "seo-meta",
		Title:       "SEO Meta Fields",
		Description: "Add custom SEO meta fields to posts and pages",
		Category:    models.CategoryAdmin,
		Image:       "https://images.pexels.com/photos/590022/pexels-photo-590022.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
	},
	{
		ID:          "cookie-notice",
		Title:       "Cookie Consent Notice",
		Description: "Display a customizable cookie consent notice",
		Category:    models.CategoryCustom,
		Image:       "https://images.pexels.com/photos/6476260/pexels-photo-6476260.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
	},
	{
		ID:          "product-gallery",
		Title:       "Enhanced Product Gallery",
		Description: "Improve WooCommerce product galleries with zoom and lightbox",
		Category:    models.CategoryEcommerce,
		Image:       "https://images.pexels.com/photos/5632402/pexels-photo-5632402.jpeg?auto=compress&cs=tinysrgb&w=1260&h=750&dpr=2",
	},
}

// List returns the templates of one category, or all of them for "all"
// or an empty string.
func List(category string) []Template {
	category = strings.ToLower(category)
	out := make([]Template, 0, len(catalog))
	for _, t := range catalog {
		if category == "" || category == "all" || string(t.Category) == category {
			out = append(out, t)
		}
	}
	return out
}

// Find looks a template up by id
func Find(id string) (Template, error) {
	for _, t := range catalog {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("template '%s' not found", id)
}

// Apply fills the empty fields of req from the template named by
// req.TemplateID. An unknown id leaves req unchanged, so links carrying
// their own fields keep working.
func Apply(req models.PluginRequest) (models.PluginRequest, bool) {
	if req.TemplateID == "" {
		return req, false
	}
	t, err := Find(req.TemplateID)
	if err != nil {
		return req, false
	}
	return form.Merge(req, t.Request()), true
}
