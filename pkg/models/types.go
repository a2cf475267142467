package models

import (
	"sort"
	"time"
)

// Category selects the template set used to generate a plugin
type Category string

const (
	CategoryWidget    Category = "widget"
	CategoryShortcode Category = "shortcode"
	CategoryAdmin     Category = "admin"
	CategoryContent   Category = "content"
	CategoryCustom    Category = "custom"
	CategoryEcommerce Category = "ecommerce"
)

// Categories lists every category in the order the form offers them
var Categories = []Category{
	CategoryWidget,
	CategoryShortcode,
	CategoryAdmin,
	CategoryContent,
	CategoryCustom,
	CategoryEcommerce,
}

var categoryLabels = map[Category]string{
	CategoryWidget:    "Widget",
	CategoryShortcode: "Shortcode",
	CategoryAdmin:     "Admin Enhancement",
	CategoryContent:   "Content Enhancement",
	CategoryCustom:    "Custom Functionality",
	CategoryEcommerce: "E-Commerce",
}

// Label returns the human readable name shown in forms and listings
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Known reports whether c is one of the six supported categories
func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

// PluginRequest is what the form collects and hands to the generator
type PluginRequest struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"type" yaml:"type"`
	TemplateID  string   `json:"templateId,omitempty" yaml:"templateId,omitempty"`
}

// PluginArtifact is the generated bundle for one request
type PluginArtifact struct {
	Name            string            `json:"name" yaml:"name"`
	Slug            string            `json:"slug" yaml:"slug"`
	Category        Category          `json:"type" yaml:"type"`
	Description     string            `json:"description" yaml:"description"`
	Features        []string          `json:"features" yaml:"features"`
	MainFile        string            `json:"mainFile" yaml:"mainFile"`
	AdditionalFiles map[string]string `json:"additionalFiles" yaml:"additionalFiles"`
	Instructions    string            `json:"instructions" yaml:"instructions"`
	TemplateID      string            `json:"templateId,omitempty" yaml:"templateId,omitempty"`
}

// MainFileName is the main plugin file name inside the plugin folder
func (a *PluginArtifact) MainFileName() string {
	return a.Slug + ".php"
}

// FilePaths returns the additional file paths in sorted order
func (a *PluginArtifact) FilePaths() []string {
	paths := make([]string, 0, len(a.AdditionalFiles))
	for path := range a.AdditionalFiles {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// SavedPlugin is the reduced record kept in the projects list
type SavedPlugin struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Slug        string    `json:"slug" yaml:"slug"`
	Category    Category  `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	SavedAt     time.Time `json:"savedAt" yaml:"savedAt"`
}
