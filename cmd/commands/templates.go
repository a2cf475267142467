package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/templates"
	"github.com/plugingenius/plugingenius-cli/pkg/tui"
)

// NewTemplatesCommand creates the templates command
func NewTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates [type]",
		Short: "List starter templates",
		Long: `List the starter templates. Pass a plugin type to filter, and start a
plugin from one with 'plugingenius generate --template <id>'.

Examples:
  plugingenius templates
  plugingenius templates widget
  plugingenius templates preview contact-form`,
		Aliases:   []string{"template"},
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"widget", "shortcode", "admin", "content", "custom", "ecommerce", "all"},
		RunE:      runTemplates,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "preview <id>",
		Short: "Generate and print the plugin a template produces",
		Args:  cobra.ExactArgs(1),
		RunE:  runTemplatePreview,
	})

	return cmd
}

func runTemplates(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	category := "all"
	if len(args) > 0 {
		category = args[0]
		if category != "all" {
			if err := cli.ValidateCategory(category); err != nil {
				return err
			}
		}
	}

	list := templates.List(category)

	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, list)
	}

	table := cli.NewTable(cmd.OutOrStdout(), "ID", "TYPE", "TITLE", "DESCRIPTION")
	for _, t := range list {
		table.Row(t.ID, t.Category.Label(), t.Title, cli.TruncateString(t.Description, 50))
	}
	return table.Flush()
}

func runTemplatePreview(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	t, err := templates.Find(args[0])
	if err != nil {
		return err
	}

	cc, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cli.PrintInfo("Generating plugin preview...")
	artifact, err := cc.Generator().Generate(cmd.Context(), t.Request())
	if err != nil {
		return fmt.Errorf("failed to generate preview: %w", err)
	}

	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, artifact)
	}

	fmt.Fprint(cmd.OutOrStdout(), tui.RenderPlain(artifact, 80))
	return nil
}
