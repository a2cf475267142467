package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/cmd/commands"
	"github.com/plugingenius/plugingenius-cli/internal/cli"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	configPath string
	quiet      bool
	noColor    bool
	debug      bool
	assumeYes  bool
	output     string
	storeFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "plugingenius",
	Short: "Generate WordPress plugin templates from a short description",
	Long: `PluginGenius turns a plugin name, type and description into a ready to install
WordPress plugin: a main PHP file, category specific helper files, a readme and
installation instructions. Results can be downloaded as a zip archive or a
plain text export, copied to the clipboard, and saved to a project list.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.SetGlobalFlags(quiet, noColor, assumeYes)
		return cli.ValidateOutputFormat(output)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of PluginGenius",
	Long:  `Display the current version of the PluginGenius CLI tool`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "PluginGenius version %s\n", version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ./.plugingenius.yaml)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress status messages")
	flags.BoolVar(&noColor, "no-color", false, "plain status prefixes instead of symbols")
	flags.BoolVar(&debug, "debug", false, "verbose diagnostic logging")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "answer yes to confirmations")
	flags.StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	flags.StringVar(&storeFlag, "store", "", "project store driver, overrides store.driver")

	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewViewCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewCategoriesCommand())
	rootCmd.AddCommand(commands.NewTemplatesCommand())
	rootCmd.AddCommand(commands.NewProjectsCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}
