package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

func TestCatalogCoversEveryCategory(t *testing.T) {
	all := List("all")
	require.Len(t, all, len(models.Categories))

	seen := map[models.Category]bool{}
	ids := map[string]bool{}
	for _, tmpl := range all {
		assert.True(t, tmpl.Category.Known(), "template %s has unknown category", tmpl.ID)
		assert.False(t, ids[tmpl.ID], "duplicate id %s", tmpl.ID)
		seen[tmpl.Category] = true
		ids[tmpl.ID] = true
	}
	assert.Len(t, seen, len(models.Categories))
}

func TestList(t *testing.T) {
	tests := []struct {
		category string
		expected []string
	}{
		{"widget", []string{"related-posts"}},
		{"Shortcode", []string{"contact-form"}},
		{"gizmo", nil},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			var ids []string
			for _, tmpl := range List(tt.category) {
				ids = append(ids, tmpl.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	assert.Len(t, List(""), 6)
}

func TestFind(t *testing.T) {
	tmpl, err := Find("seo-meta")
	require.NoError(t, err)
	assert.Equal(t, "SEO Meta Fields", tmpl.Title)

	_, err = Find("missing")
	assert.EqualError(t, err, "template 'missing' not found")
}

func TestApply(t *testing.T) {
	req, ok := Apply(models.PluginRequest{TemplateID: "cookie-notice", Title: "My Cookies"})
	require.True(t, ok)
	assert.Equal(t, models.PluginRequest{
		Title:       "My Cookies",
		Description: "Display a customizable cookie consent notice",
		Category:    models.CategoryCustom,
		TemplateID:  "cookie-notice",
	}, req)

	original := models.PluginRequest{TemplateID: "unknown", Title: "Keep"}
	req, ok = Apply(original)
	assert.False(t, ok)
	assert.Equal(t, original, req)

	_, ok = Apply(models.PluginRequest{Title: "No template"})
	assert.False(t, ok)
}
