package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
	"github.com/plugingenius/plugingenius-cli/pkg/utils"
)

// InspectEntry is one file found in a download
type InspectEntry struct {
	Path  string `json:"path" yaml:"path"`
	Lines int    `json:"lines" yaml:"lines"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

// InspectResult describes a download file
type InspectResult struct {
	File     string                 `json:"file" yaml:"file"`
	Kind     string                 `json:"kind" yaml:"kind"`
	Entries  []InspectEntry         `json:"entries" yaml:"entries"`
	Artifact *models.PluginArtifact `json:"artifact,omitempty" yaml:"artifact,omitempty"`
}

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive.zip|files.txt>",
		Short: "Inspect a downloaded plugin",
		Long: `List the entries of a downloaded zip archive, or parse a text export back
into its files.

Examples:
  plugingenius inspect quote-rotator.zip
  plugingenius inspect quote-rotator-files.txt -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	path := args[0]

	if err := cli.ValidateFilePath(path); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result := InspectResult{File: path}
	var contents map[string]string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		result.Kind = "archive"
		if contents, err = packager.Extract(data); err != nil {
			return err
		}
	default:
		result.Kind = "text"
		artifact, err := packager.ParseText(string(data))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		result.Artifact = artifact
		contents = map[string]string{artifact.MainFileName(): artifact.MainFile}
		for p, c := range artifact.AdditionalFiles {
			contents[p] = c
		}
	}

	for _, s := range utils.Stats(contents) {
		result.Entries = append(result.Entries, InspectEntry{Path: s.Path, Lines: s.Lines, Bytes: s.Bytes})
	}

	switch outputFormat {
	case "json", "yaml":
		return cli.OutputResults(cmd.OutOrStdout(), outputFormat, result)
	}

	w := cmd.OutOrStdout()
	if result.Artifact != nil {
		fmt.Fprintf(w, "Plugin: %s\n", result.Artifact.Name)
		fmt.Fprintf(w, "Slug: %s\n", result.Artifact.Slug)
		fmt.Fprintf(w, "Features: %d\n\n", len(result.Artifact.Features))
	}

	table := cli.NewTable(w, "PATH", "LINES", "SIZE")
	for _, e := range result.Entries {
		table.Row(e.Path, fmt.Sprint(e.Lines), cli.FormatBytes(int64(e.Bytes)))
	}
	if err := table.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d %s\n", len(result.Entries), plural(len(result.Entries), "file", "files"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
