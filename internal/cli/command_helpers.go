package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/pkg/config"
	"github.com/plugingenius/plugingenius-cli/pkg/files"
	"github.com/plugingenius/plugingenius-cli/pkg/generator"
	"github.com/plugingenius/plugingenius-cli/pkg/logging"
	"github.com/plugingenius/plugingenius-cli/pkg/metrics"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
	"github.com/plugingenius/plugingenius-cli/pkg/store"
)

// CommandContext carries the settings and collaborators a command needs
type CommandContext struct {
	Settings   *models.Settings
	ConfigFile string
	Logger     hclog.Logger
	Metrics    *metrics.Recorder
	validated  bool
}

// NewCommandContext loads settings honouring the --config, --debug and
// --store flags when cmd defines them.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	driver, _ := cmd.Flags().GetString("store")

	settings, used, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if driver != "" {
		if err := ValidateStoreDriver(driver); err != nil {
			return nil, err
		}
		settings.Store.Driver = driver
	}

	level := settings.Log.Level
	if debug {
		level = "debug"
	}

	var out io.Writer = cmd.ErrOrStderr()
	if quiet && !debug {
		out = io.Discard
	}

	return &CommandContext{
		Settings:   settings,
		ConfigFile: used,
		Logger:     logging.New("plugingenius", level, out),
		Metrics:    metrics.Default(),
	}, nil
}

// ValidateProject ensures the project is initialized
func (c *CommandContext) ValidateProject() error {
	if c.validated {
		return nil
	}

	if !files.ProjectInitialized() {
		return fmt.Errorf("no %s directory found. Run 'plugingenius init' first", files.DataDir)
	}

	c.validated = true
	return nil
}

// Generator builds a generator from the generator settings
func (c *CommandContext) Generator() *generator.Generator {
	g := c.Settings.Generator
	return generator.New(
		generator.WithDelay(g.Delay),
		generator.WithAuthor(g.Author, g.AuthorURI),
		generator.WithLogger(c.Logger.Named("generator")),
		generator.WithMetrics(c.Metrics),
	)
}

// Packager builds a packager writing to the configured output directory
func (c *CommandContext) Packager() (*packager.Packager, error) {
	out := c.Settings.Output
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", out.Dir, err)
	}
	return packager.New(packager.NewDirSink(out.Dir),
		packager.WithCompressionLevel(out.CompressionLevel),
		packager.WithPaths(out.Text, out.Archive),
		packager.WithLogger(c.Logger.Named("packager")),
		packager.WithMetrics(c.Metrics),
	), nil
}

// OpenProjects opens the configured store. The caller closes the returned KV.
func (c *CommandContext) OpenProjects(ctx context.Context) (*store.Projects, store.KV, error) {
	kv, err := store.Open(ctx, c.Settings.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open project store: %w", err)
	}
	c.Logger.Debug("project store opened", "driver", c.Settings.Store.Driver)

	return store.NewProjects(kv, store.WithProjectMetrics(c.Metrics)), kv, nil
}
