package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/files"
	"github.com/plugingenius/plugingenius-cli/pkg/form"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
	"github.com/plugingenius/plugingenius-cli/pkg/presenter"
	"github.com/plugingenius/plugingenius-cli/pkg/store"
	"github.com/plugingenius/plugingenius-cli/pkg/templates"
	"github.com/plugingenius/plugingenius-cli/pkg/tui"
)

// GenerateResult is the structured output of generate
type GenerateResult struct {
	Artifact *models.PluginArtifact `json:"artifact" yaml:"artifact"`
	Kept     string                 `json:"kept,omitempty" yaml:"kept,omitempty"`
	Download *packager.Result       `json:"download,omitempty" yaml:"download,omitempty"`
	Saved    *models.SavedPlugin    `json:"saved,omitempty" yaml:"saved,omitempty"`
	Copied   bool                   `json:"copied,omitempty" yaml:"copied,omitempty"`
}

var (
	generateTitle       string
	generateDescription string
	generateCategory    string
	generateTemplate    string
	generateInteractive bool
	generateOutDir      string
	generateNoText      bool
	generateNoArchive   bool
	generateCopy        bool
	generateSave        bool
	generateView        bool
)

// newPrompter and clipboardWriter are swapped out by tests
var (
	newPrompter                        = form.NewPrompter
	clipboardWriter packager.Clipboard = packager.SystemClipboard{}
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a WordPress plugin",
		Long: `Generate a WordPress plugin from a name, a type and a description.

The plugin is written to the output directory as {slug}-files.txt and
{slug}.zip. Use --interactive to be prompted for missing fields, or --view
to browse the result before downloading.

Types: widget, shortcode, admin, content, custom, ecommerce

Examples:
  # Generate from flags
  plugingenius generate --title "Quote Rotator" --category shortcode \
    --description "Shows a random quote"

  # Prompt for everything
  plugingenius generate -i

  # Start from a catalog template (see 'plugingenius templates')
  plugingenius generate --template contact-form

  # Only the zip, into ./dist, and save to projects
  plugingenius generate -i --no-text --out dist --save

  # Print the artifact as JSON without downloading
  plugingenius generate -i --no-text --no-archive -o json`,
		Aliases: []string{"gen", "new"},
		Args:    cobra.NoArgs,
		RunE:    runGenerate,
	}

	cmd.Flags().StringVarP(&generateTitle, "title", "t", "", "Plugin name")
	cmd.Flags().StringVarP(&generateDescription, "description", "d", "", "What the plugin should do")
	cmd.Flags().StringVarP(&generateCategory, "category", "c", "", "Plugin type")
	cmd.Flags().StringVar(&generateTemplate, "template", "", "Catalog template to start from")
	cmd.Flags().BoolVarP(&generateInteractive, "interactive", "i", false, "Prompt for missing fields")
	cmd.Flags().StringVar(&generateOutDir, "out", "", "Output directory (default from config)")
	cmd.Flags().BoolVar(&generateNoText, "no-text", false, "Skip the text export")
	cmd.Flags().BoolVar(&generateNoArchive, "no-archive", false, "Skip the zip archive")
	cmd.Flags().BoolVar(&generateCopy, "copy", false, "Copy the text export to the clipboard")
	cmd.Flags().BoolVar(&generateSave, "save", false, "Save the plugin to projects")
	cmd.Flags().BoolVar(&generateView, "view", false, "Open the interactive result view")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	ctx := cmd.Context()

	cc, err := cli.NewCommandContext(cmd)
	if err != nil {
		return err
	}
	if generateOutDir != "" {
		cc.Settings.Output.Dir = generateOutDir
	}
	if generateNoText {
		cc.Settings.Output.Text = false
	}
	if generateNoArchive {
		cc.Settings.Output.Archive = false
	}

	req := models.PluginRequest{
		Title:       generateTitle,
		Description: generateDescription,
		Category:    models.Category(strings.ToLower(strings.TrimSpace(generateCategory))),
		TemplateID:  generateTemplate,
	}
	req, _ = templates.Apply(req)
	if generateInteractive {
		if req, err = newPrompter().Prompt(req); err != nil {
			return err
		}
	}

	if err := form.Validate(req); err != nil {
		var verrs form.ValidationErrors
		if errors.As(err, &verrs) {
			for _, msg := range verrs.Messages() {
				cli.PrintError("%s", msg)
			}
		}
		return fmt.Errorf("invalid plugin request: %w", err)
	}
	if err := cli.ValidateCategory(string(req.Category)); err != nil {
		cli.PrintWarning("%v; using the custom templates", err)
	}

	cli.PrintInfo("Generating %s...", req.Title)
	artifact, err := cc.Generator().Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate plugin: %w", err)
	}
	cli.PrintSuccess("Generated %s (%s)", artifact.Name, artifact.Slug)

	result := GenerateResult{Artifact: artifact}

	if files.ProjectInitialized() {
		path := files.ArtifactPath(artifact.Slug)
		if err := files.WriteArtifact(path, artifact); err != nil {
			cli.PrintWarning("Could not keep artifact: %v", err)
		} else {
			result.Kept = path
		}
	}

	if generateView {
		return viewArtifact(ctx, cc, artifact)
	}

	// download, copy and save are independent; failures are collected
	var failures []error

	if cc.Settings.Output.Text || cc.Settings.Output.Archive {
		pk, err := cc.Packager()
		if err != nil {
			return err
		}
		result.Download = pk.Download(ctx, artifact)
		reportDownload(result.Download, cc.Settings.Output.Dir)
		if result.Download.Status != packager.StatusSuccess {
			failures = append(failures, fmt.Errorf("download failed: %s", result.Download.Message()))
		}
	}

	if generateCopy {
		if err := packager.CopyText(clipboardWriter, artifact); err != nil {
			cli.PrintWarning("%v", err)
		} else {
			result.Copied = true
			cli.PrintSuccess("Copied to clipboard")
		}
	}

	if generateSave {
		saved, err := saveArtifact(ctx, cc, artifact)
		if err != nil {
			failures = append(failures, err)
		} else {
			result.Saved = &saved
			cli.PrintSuccess("Saved to projects as %s", saved.ID)
		}
	}

	switch outputFormat {
	case "json", "yaml":
		err = cli.OutputResults(cmd.OutOrStdout(), outputFormat, result)
	default:
		err = outputGenerateText(cmd.OutOrStdout(), result)
	}
	if err != nil {
		failures = append(failures, err)
	}
	return errors.Join(failures...)
}

func reportDownload(r *packager.Result, dir string) {
	if r.TextFile != "" {
		cli.PrintSuccess("Wrote %s", joinDir(dir, r.TextFile))
	} else if r.TextErr != nil {
		cli.PrintError("Text download failed: %v", r.TextErr)
	}

	if r.ArchiveFile != "" {
		cli.PrintSuccess("Wrote %s (%s)", joinDir(dir, r.ArchiveFile), cli.FormatBytes(int64(r.ArchiveSize)))
	} else if r.ArchiveErr != nil {
		if r.Status == packager.StatusSuccess {
			cli.PrintWarning("Archive download failed: %v", r.ArchiveErr)
		} else {
			cli.PrintError("Archive download failed: %v", r.ArchiveErr)
		}
	}
}

func joinDir(dir, name string) string {
	if dir == "" || dir == "." || dir == "./" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}

func outputGenerateText(w io.Writer, r GenerateResult) error {
	a := r.Artifact
	fmt.Fprintf(w, "\nPlugin: %s\n", a.Name)
	fmt.Fprintf(w, "Slug: %s\n", a.Slug)
	fmt.Fprintf(w, "Type: %s\n", a.Category.Label())
	fmt.Fprintf(w, "Files: %s", a.MainFileName())
	for _, path := range a.FilePaths() {
		fmt.Fprintf(w, ", %s", path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "\nFeatures:")
	for _, f := range a.Features {
		fmt.Fprintf(w, "  - %s\n", f)
	}

	fmt.Fprintln(w, "\nInstructions:")
	fmt.Fprintln(w, indent(tui.InstructionsText(a.Instructions, 76), "  "))
	return nil
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func saveArtifact(ctx context.Context, cc *cli.CommandContext, a *models.PluginArtifact) (models.SavedPlugin, error) {
	projects, kv, err := cc.OpenProjects(ctx)
	if err != nil {
		return models.SavedPlugin{}, err
	}
	defer kv.Close()

	saved, err := projects.Save(ctx, a)
	if err != nil {
		return models.SavedPlugin{}, fmt.Errorf("failed to save plugin: %w", err)
	}
	return saved, nil
}

// viewArtifact opens the result view with download, copy and save wired to
// the configured packager and store.
func viewArtifact(ctx context.Context, cc *cli.CommandContext, a *models.PluginArtifact) error {
	pk, err := cc.Packager()
	if err != nil {
		return err
	}

	var projects *store.Projects
	p, kv, err := cc.OpenProjects(ctx)
	if err != nil {
		cli.PrintWarning("Saving is disabled: %v", err)
	} else {
		defer kv.Close()
		projects = p
	}

	actions := tui.Actions{
		Download: pk.Download,
		Copy: func(a *models.PluginArtifact) error {
			return packager.CopyText(clipboardWriter, a)
		},
	}
	if projects != nil {
		actions.Save = projects.Save
	}

	return tui.Run(ctx, presenter.New(a), actions)
}
