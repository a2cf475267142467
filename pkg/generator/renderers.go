package generator

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// Vars are the values every template is rendered with
type Vars struct {
	Title       string
	Description string
	Slug        string
	ClassName   string
	VarName     string
	Category    string
	Author      string
	AuthorURI   string
}

func (v Vars) context() pongo2.Context {
	return pongo2.Context{
		"title":       v.Title,
		"description": v.Description,
		"slug":        v.Slug,
		"class_name":  v.ClassName,
		"var_name":    v.VarName,
		"category":    v.Category,
		"author":      v.Author,
		"author_uri":  v.AuthorURI,
	}
}

// Fragments is what a category contributes to an artifact. The assembler
// wraps Stanza in the shared main file skeleton and appends the readme.
type Fragments struct {
	Stanza       string
	Features     []string
	Files        map[string]string
	Instructions string
}

// Renderer builds the category specific fragments for a set of vars
type Renderer func(v Vars) (Fragments, error)

// BaseFeatures is shared by every category and always comes first
var BaseFeatures = []string{
	"Easy installation and activation",
	"Compatible with WordPress 5.0 and above",
	"Lightweight and optimized for performance",
}

var renderers = map[models.Category]Renderer{
	models.CategoryWidget:    renderWidget,
	models.CategoryShortcode: renderShortcode,
	models.CategoryAdmin:     renderAdmin,
	models.CategoryContent:   renderContent,
	models.CategoryCustom:    renderCustom,
	models.CategoryEcommerce: renderEcommerce,
}

// RendererFor returns the renderer for c. Unknown categories get the
// fallback renderer, which reuses the custom stanza and instructions but
// contributes no features or files.
func RendererFor(c models.Category) Renderer {
	if r, ok := renderers[c]; ok {
		return r
	}
	return renderFallback
}

type fileSpec struct {
	path     string
	template string
}

func build(v Vars, stanza, instructions string, features []string, files ...fileSpec) (Fragments, error) {
	ctx := v.context()

	frag := Fragments{
		Features: features,
		Files:    make(map[string]string, len(files)),
	}

	var err error
	if frag.Stanza, err = render(stanza, ctx); err != nil {
		return Fragments{}, err
	}
	if frag.Instructions, err = render(instructions, ctx); err != nil {
		return Fragments{}, err
	}

	for _, f := range files {
		content, err := render(f.template, ctx)
		if err != nil {
			return Fragments{}, err
		}
		frag.Files[f.path] = content
	}

	return frag, nil
}

func renderWidget(v Vars) (Fragments, error) {
	return build(v, "stanza/widget.php", "instructions/widget.html",
		[]string{
			"Customizable widget title and settings",
			"Responsive design that works on all devices",
			"Easy to add to any widget area",
		},
		fileSpec{fmt.Sprintf("includes/class-%s-widget.php", v.Slug), "files/widget-class.php"},
	)
}

func renderShortcode(v Vars) (Fragments, error) {
	return build(v, "stanza/shortcode.php", "instructions/shortcode.html",
		[]string{
			"Simple shortcode implementation",
			"Customizable through shortcode attributes",
			"Can be used in posts, pages, and widgets",
		},
		fileSpec{"templates/shortcode-template.php", "files/shortcode-template.php"},
	)
}

func renderAdmin(v Vars) (Fragments, error) {
	return build(v, "stanza/admin.php", "instructions/admin.html",
		[]string{
			"Clean integration with WordPress admin interface",
			"User-friendly settings page",
			"Role-based access control",
		},
		fileSpec{"admin/settings-page.php", "files/settings-page.php"},
	)
}

func renderContent(v Vars) (Fragments, error) {
	return build(v, "stanza/content.php", "instructions/content.html",
		[]string{
			"Seamless content enhancement",
			"Customizable display options",
			"Works with any theme",
		},
		fileSpec{fmt.Sprintf("assets/css/%s-style.css", v.Slug), "files/content-style.css"},
	)
}

func renderCustom(v Vars) (Fragments, error) {
	return build(v, "stanza/custom.php", "instructions/custom.html",
		[]string{
			"Custom functionality tailored to your needs",
			"Extensible and developer-friendly",
			"Well-documented code",
		},
		fileSpec{fmt.Sprintf("includes/class-%s-functions.php", v.Slug), "files/functions.php"},
	)
}

func renderEcommerce(v Vars) (Fragments, error) {
	return build(v, "stanza/ecommerce.php", "instructions/ecommerce.html",
		[]string{
			"Seamless WooCommerce integration",
			"Enhanced product display features",
			"Optimized for e-commerce performance",
		},
		fileSpec{fmt.Sprintf("assets/js/%s-gallery.js", v.Slug), "files/gallery.js"},
		fileSpec{fmt.Sprintf("assets/css/%s-gallery.css", v.Slug), "files/gallery.css"},
	)
}

func renderFallback(v Vars) (Fragments, error) {
	return build(v, "stanza/custom.php", "instructions/custom.html", nil)
}
