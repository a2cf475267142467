package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/config"
	"github.com/plugingenius/plugingenius-cli/pkg/files"
)

var initForce bool

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a PluginGenius project",
		Long: `Creates the .plugingenius data directory and a default .plugingenius.yaml
in the current directory.

Examples:
  # Initialize with defaults
  plugingenius init

  # Overwrite an existing config file
  plugingenius init --force`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine current directory: %w", err)
	}

	cli.PrintInfo("Initializing PluginGenius project in %s...", cwd)

	if err := files.InitProjectStructure(); err != nil {
		return fmt.Errorf("failed to initialize project structure: %w", err)
	}
	cli.PrintSuccess("Created %s folder structure", files.DataDir)

	if err := config.WriteDefault(config.FileName, initForce); err != nil {
		return err
	}
	cli.PrintSuccess("Wrote %s", config.FileName)

	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'plugingenius generate -i' to create your first plugin.")
	return nil
}
