package commands

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/server"
)

var serveAddr string

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve plugin generation, downloads and saved projects over HTTP.

Routes:
  GET    /healthz
  GET    /api/categories
  GET    /api/templates?type=
  GET    /api/templates/:id
  GET    /create?type=&title=&description=&template=
  POST   /api/plugins
  POST   /api/plugins/archive
  POST   /api/plugins/text
  GET    /api/projects
  POST   /api/projects
  GET    /api/projects/:id
  DELETE /api/projects/:id
  GET    /metrics

Examples:
  plugingenius serve
  plugingenius serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}

	addr := cc.Settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if !cc.Logger.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	projects, kv, err := cc.OpenProjects(cmd.Context())
	if err != nil {
		return err
	}
	defer kv.Close()

	srv := server.New(cc.Generator(), projects,
		server.WithLogger(cc.Logger.Named("server")),
		server.WithCompressionLevel(cc.Settings.Output.CompressionLevel),
	)

	cli.PrintInfo("Serving on %s (Ctrl-C to stop)", addr)
	return srv.Run(cmd.Context(), addr)
}
