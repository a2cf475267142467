package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// ProjectsResult is the structured output of projects list
type ProjectsResult struct {
	Projects []models.SavedPlugin `json:"projects" yaml:"projects"`
	Count    int                  `json:"count" yaml:"count"`
}

// now is replaced in tests
var now = time.Now

// NewProjectsCommand creates the projects command and its subcommands
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage saved plugins",
		Long: `List, show and delete plugins saved with 'generate --save' or the save
action of the result view. The backend is chosen by store.driver.

Examples:
  plugingenius projects list
  plugingenius projects show 0190d5f2-...
  plugingenius projects delete 0190d5f2-... --yes`,
		Aliases: []string{"project"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved plugins",
		Args:  cobra.NoArgs,
		RunE:  runProjectsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved plugin",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectsShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved plugin",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectsDelete,
	})

	return cmd
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	cc, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}
	projects, kv, err := cc.OpenProjects(cmd.Context())
	if err != nil {
		return err
	}
	defer kv.Close()

	list, err := projects.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, ProjectsResult{Projects: list, Count: len(list)})
	}

	w := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(w, "No saved plugins.")
		return nil
	}

	table := cli.NewTable(w, "ID", "NAME", "TYPE", "SAVED")
	ref := now()
	for _, sp := range list {
		table.Row(sp.ID, cli.TruncateString(sp.Name, 30), sp.Category.Label(), cli.FormatRelative(sp.SavedAt, ref))
	}
	return table.Flush()
}

func runProjectsShow(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")

	cc, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}
	projects, kv, err := cc.OpenProjects(cmd.Context())
	if err != nil {
		return err
	}
	defer kv.Close()

	sp, err := projects.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, sp)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "ID: %s\n", sp.ID)
	fmt.Fprintf(w, "Name: %s\n", sp.Name)
	fmt.Fprintf(w, "Slug: %s\n", sp.Slug)
	fmt.Fprintf(w, "Type: %s\n", sp.Category.Label())
	fmt.Fprintf(w, "Saved: %s (%s)\n", sp.SavedAt.Format(time.RFC3339), cli.FormatRelative(sp.SavedAt, now()))
	if sp.Description != "" {
		fmt.Fprintf(w, "\n%s\n", sp.Description)
	}
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	cc, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}
	projects, kv, err := cc.OpenProjects(cmd.Context())
	if err != nil {
		return err
	}
	defer kv.Close()

	sp, err := projects.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(fmt.Sprintf("Delete saved plugin '%s'?", sp.Name), false)
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		cli.PrintInfo("Deletion cancelled")
		return nil
	}

	if err := projects.Delete(cmd.Context(), sp.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	cli.PrintSuccess("Deleted saved plugin '%s'", sp.Name)
	return nil
}
