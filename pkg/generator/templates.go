package generator

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates
var templateFS embed.FS

// templates holds every compiled template keyed by its path below templates/
var templates map[string]*pongo2.Template

var phpQuoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func init() {
	if err := pongo2.RegisterFilter("php_quote", filterPHPQuote); err != nil {
		panic(fmt.Sprintf("failed to register php_quote filter: %v", err))
	}

	loaded, err := loadTemplates(templateFS)
	if err != nil {
		panic(err)
	}
	templates = loaded
}

// filterPHPQuote escapes a value for use inside a single quoted PHP string
func filterPHPQuote(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(phpQuoter.Replace(in.String())), nil
}

// loadTemplates compiles every file under templates/. HTML fragments keep
// pongo2's autoescaping; source files are rendered verbatim.
func loadTemplates(fsys fs.FS) (map[string]*pongo2.Template, error) {
	compiled := make(map[string]*pongo2.Template)

	err := fs.WalkDir(fsys, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", p, err)
		}

		source := string(content)
		if path.Ext(p) != ".html" {
			source = "{% autoescape off %}" + source + "{% endautoescape %}"
		}

		tpl, err := pongo2.FromString(source)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", p, err)
		}

		compiled[strings.TrimPrefix(p, "templates/")] = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return compiled, nil
}

// render executes the named template with the given context
func render(name string, ctx pongo2.Context) (string, error) {
	tpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %s", name)
	}

	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return out, nil
}
