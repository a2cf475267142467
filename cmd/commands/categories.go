package commands

import (
	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// CategoryItem is one row of the categories listing
type CategoryItem struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// NewCategoriesCommand creates the categories command
func NewCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the plugin types",
		Long: `List the plugin types accepted by --category, with their display labels.

Examples:
  plugingenius categories
  plugingenius categories -o json`,
		Args: cobra.NoArgs,
		RunE: runCategories,
	}
}

func runCategories(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	items := make([]CategoryItem, len(models.Categories))
	for i, c := range models.Categories {
		items[i] = CategoryItem{Value: string(c), Label: c.Label()}
	}

	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, items)
	}

	table := cli.NewTable(cmd.OutOrStdout())
	for _, item := range items {
		table.Row(item.Value, item.Label)
	}
	return table.Flush()
}
