package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/files"
	"github.com/plugingenius/plugingenius-cli/pkg/presenter"
	"github.com/plugingenius/plugingenius-cli/pkg/tui"
)

var viewPlain bool

// NewViewCommand creates the view command
func NewViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <artifact|slug>",
		Short: "Present a generated plugin",
		Long: `Open a previously generated plugin in the result view. The argument is
either an artifact file (.json or .yaml) or the slug of an artifact kept in
.plugingenius/artifacts.

Examples:
  plugingenius view quote-rotator
  plugingenius view exported/quote-rotator.json
  plugingenius view quote-rotator --plain
  plugingenius view quote-rotator -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runView,
	}

	cmd.Flags().BoolVar(&viewPlain, "plain", false, "Print all tabs instead of opening the interactive view")

	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	path, err := files.ResolveArtifact(args[0])
	if err != nil {
		return err
	}
	artifact, err := files.ReadArtifact(path)
	if err != nil {
		return err
	}

	p := presenter.New(artifact)

	switch outputFormat {
	case "json", "yaml":
		if !p.Valid() {
			return p.Err()
		}
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, p.Artifact())
	}

	if viewPlain {
		if !p.Valid() {
			return fmt.Errorf("%w. Please try generating the plugin again", p.Err())
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderPlain(p.Artifact(), 80))
		return nil
	}

	cc, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if !p.Valid() {
		return tui.Run(cmd.Context(), p, tui.Actions{})
	}
	return viewArtifact(cmd.Context(), cc, p.Artifact())
}
