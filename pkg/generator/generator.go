// Package generator expands a plugin request into a WordPress plugin
// artifact. Output depends only on the request and the author settings.
package generator

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/plugingenius/plugingenius-cli/pkg/logging"
	"github.com/plugingenius/plugingenius-cli/pkg/metrics"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

const (
	DefaultAuthor    = "PluginGenius"
	DefaultAuthorURI = "https://plugingenius.com"
)

// Generator renders plugin artifacts
type Generator struct {
	delay     time.Duration
	author    string
	authorURI string
	logger    hclog.Logger
	metrics   *metrics.Recorder
}

// Option configures a Generator
type Option func(*Generator)

// WithDelay sets the simulated latency applied by Generate
func WithDelay(d time.Duration) Option {
	return func(g *Generator) { g.delay = d }
}

// WithAuthor overrides the plugin header author fields
func WithAuthor(name, uri string) Option {
	return func(g *Generator) {
		if name != "" {
			g.author = name
		}
		if uri != "" {
			g.authorURI = uri
		}
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(l hclog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *metrics.Recorder) Option {
	return func(g *Generator) { g.metrics = m }
}

// New creates a generator with no delay and the default author
func New(opts ...Option) *Generator {
	g := &Generator{
		author:    DefaultAuthor,
		authorURI: DefaultAuthorURI,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrDiscard(g.logger)
	return g
}

// Generate waits for the configured delay and then renders the artifact.
// The only error besides a template failure is ctx ending during the wait.
func (g *Generator) Generate(ctx context.Context, req models.PluginRequest) (*models.PluginArtifact, error) {
	if g.delay > 0 {
		g.logger.Debug("simulating generation latency", "delay", g.delay)
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return g.Render(req)
}

// Render builds the artifact without any delay
func (g *Generator) Render(req models.PluginRequest) (*models.PluginArtifact, error) {
	start := time.Now()

	slug := Slug(req.Title)
	v := Vars{
		Title:       req.Title,
		Description: req.Description,
		Slug:        slug,
		ClassName:   ClassName(slug),
		VarName:     VarName(slug),
		Category:    string(req.Category),
		Author:      g.author,
		AuthorURI:   g.authorURI,
	}

	frag, err := RendererFor(req.Category)(v)
	if err != nil {
		return nil, err
	}

	artifact, err := assemble(v, frag)
	if err != nil {
		return nil, err
	}
	artifact.Category = req.Category
	artifact.TemplateID = req.TemplateID

	elapsed := time.Since(start)
	g.metrics.RecordGeneration(string(req.Category), elapsed)
	g.logger.Debug("plugin generated", "slug", slug, "category", req.Category, "files", len(artifact.AdditionalFiles), "elapsed", elapsed)

	return artifact, nil
}

// assemble wraps the category fragments into the shared skeleton and adds
// the readme every plugin carries.
func assemble(v Vars, frag Fragments) (*models.PluginArtifact, error) {
	features := make([]string, 0, len(BaseFeatures)+len(frag.Features))
	features = append(features, BaseFeatures...)
	features = append(features, frag.Features...)

	ctx := v.context()
	ctx["stanza"] = frag.Stanza

	mainFile, err := render("main.php", ctx)
	if err != nil {
		return nil, err
	}

	bullets := make([]string, len(features))
	for i, f := range features {
		bullets[i] = "* " + f
	}
	ctx["feature_list"] = strings.Join(bullets, "\n")
	ctx["contributor"] = strings.ToLower(strings.Join(strings.Fields(v.Author), ""))

	readme, err := render("readme.txt", ctx)
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(frag.Files)+1)
	for path, content := range frag.Files {
		files[path] = content
	}
	files["readme.txt"] = readme

	return &models.PluginArtifact{
		Name:            v.Title,
		Slug:            v.Slug,
		Description:     v.Description,
		Features:        features,
		MainFile:        mainFile,
		AdditionalFiles: files,
		Instructions:    frag.Instructions,
	}, nil
}
