package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugingenius/plugingenius-cli/internal/cli"
	"github.com/plugingenius/plugingenius-cli/pkg/files"
	"github.com/plugingenius/plugingenius-cli/pkg/form"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/packager"
)

// setupProject moves into a fresh directory with no simulated delay
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PLUGINGENIUS_GENERATOR_DELAY", "0s")
	cli.SetGlobalFlags(true, true, false)
	t.Cleanup(func() { cli.SetGlobalFlags(false, false, false) })
	return dir
}

// execute runs cmd with the --output flag and error silencing the root
// command provides
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cmd.PersistentFlags().StringP("output", "o", "text", "")
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

var quoteRotatorArgs = []string{
	"--title", "Quote Rotator",
	"--category", "shortcode",
	"--description", "Shows a random quote",
}

func TestCategoriesCommand(t *testing.T) {
	out, err := execute(t, NewCategoriesCommand(), "-o", "json")
	require.NoError(t, err)

	var items []CategoryItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 6)
	assert.Equal(t, CategoryItem{Value: "ecommerce", Label: "E-Commerce"}, items[5])

	out, err = execute(t, NewCategoriesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "Content Enhancement")
}

func TestInitCommand(t *testing.T) {
	setupProject(t)

	_, err := execute(t, NewInitCommand())
	require.NoError(t, err)
	assert.True(t, files.ProjectInitialized())
	assert.FileExists(t, ".plugingenius.yaml")

	_, err = execute(t, NewInitCommand())
	assert.Error(t, err, "second init should refuse to overwrite the config")

	_, err = execute(t, NewInitCommand(), "--force")
	assert.NoError(t, err)
}

func TestGenerateCommand_WritesDownloads(t *testing.T) {
	dir := setupProject(t)

	args := append([]string{"--out", "dist", "-o", "json"}, quoteRotatorArgs...)
	out, err := execute(t, NewGenerateCommand(), args...)
	require.NoError(t, err)

	var result GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "quote-rotator", result.Artifact.Slug)
	require.NotNil(t, result.Download)
	assert.Equal(t, packager.StatusSuccess, result.Download.Status)
	assert.Empty(t, result.Kept, "nothing is kept before init")

	assert.FileExists(t, filepath.Join(dir, "dist", "quote-rotator-files.txt"))
	assert.FileExists(t, filepath.Join(dir, "dist", "quote-rotator.zip"))
}

func TestGenerateCommand_TextOutput(t *testing.T) {
	setupProject(t)

	args := append([]string{"--no-text", "--no-archive"}, quoteRotatorArgs...)
	out, err := execute(t, NewGenerateCommand(), args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Plugin: Quote Rotator")
	assert.Contains(t, out, "Type: Shortcode")
	assert.Contains(t, out, "Files: quote-rotator.php, readme.txt")
	assert.Contains(t, out, "Instructions:")

	_, err = os.Stat("quote-rotator.zip")
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateCommand_Validation(t *testing.T) {
	setupProject(t)

	_, err := execute(t, NewGenerateCommand(), "--title", "Quote Rotator", "--category", "widget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid plugin request")
	assert.Contains(t, err.Error(), form.MsgMissingDescription)

	_, err = execute(t, NewGenerateCommand(), "--title", "!!!", "--category", "widget", "--description", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), form.MsgUnsluggableTitle)
}

func TestGenerateCommand_Interactive(t *testing.T) {
	setupProject(t)

	var asked []string
	old := newPrompter
	newPrompter = func() *form.Prompter {
		return &form.Prompter{Ask: func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
			out := response.(*string)
			switch prompt := p.(type) {
			case *survey.Input:
				asked = append(asked, prompt.Message)
				*out = "Store Badges"
			case *survey.Select:
				asked = append(asked, prompt.Message)
				*out = "E-Commerce"
			case *survey.Multiline:
				asked = append(asked, prompt.Message)
				*out = "Adds badges to products"
			}
			return nil
		}}
	}
	defer func() { newPrompter = old }()

	out, err := execute(t, NewGenerateCommand(), "-i", "--no-text", "--no-archive", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"Plugin Name", "Plugin Type", "Describe Your Plugin"}, asked)

	var result GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, models.CategoryEcommerce, result.Artifact.Category)
	assert.Equal(t, "store-badges", result.Artifact.Slug)
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

func TestGenerateCommand_CopySaveAndKeep(t *testing.T) {
	setupProject(t)
	_, err := execute(t, NewInitCommand())
	require.NoError(t, err)

	cb := &fakeClipboard{}
	old := clipboardWriter
	clipboardWriter = cb
	defer func() { clipboardWriter = old }()

	args := append([]string{"--no-text", "--no-archive", "--copy", "--save", "-o", "json"}, quoteRotatorArgs...)
	out, err := execute(t, NewGenerateCommand(), args...)
	require.NoError(t, err)

	var result GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Copied)
	assert.Contains(t, cb.text, "# Quote Rotator")
	require.NotNil(t, result.Saved)
	assert.Equal(t, files.ArtifactPath("quote-rotator"), result.Kept)

	out, err = execute(t, NewProjectsCommand(), "list", "-o", "json")
	require.NoError(t, err)
	var list ProjectsResult
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, result.Saved.ID, list.Projects[0].ID)

	out, err = execute(t, NewViewCommand(), "quote-rotator", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "quote-rotator.php")
	assert.Contains(t, out, "INSTRUCTIONS")
}

func TestGenerateCommand_DownloadFailureStillSaves(t *testing.T) {
	dir := setupProject(t)
	// a directory in the way of the text export makes that path fail
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist", "quote-rotator-files.txt"), 0755))

	cb := &fakeClipboard{}
	old := clipboardWriter
	clipboardWriter = cb
	defer func() { clipboardWriter = old }()

	args := append([]string{"--out", "dist", "--copy", "--save", "-o", "json"}, quoteRotatorArgs...)
	out, err := execute(t, NewGenerateCommand(), args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download failed")

	var result GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Download)
	assert.Equal(t, packager.StatusError, result.Download.Status)
	assert.Equal(t, "quote-rotator.zip", result.Download.ArchiveFile)
	assert.True(t, result.Copied)
	require.NotNil(t, result.Saved, "save runs even though the download failed")

	out, err = execute(t, NewProjectsCommand(), "list", "-o", "json")
	require.NoError(t, err)
	var list ProjectsResult
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, 1, list.Count)
}

func TestProjectsCommand(t *testing.T) {
	setupProject(t)

	out, err := execute(t, NewProjectsCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved plugins.")

	args := append([]string{"--no-text", "--no-archive", "--save", "-o", "json"}, quoteRotatorArgs...)
	out, err = execute(t, NewGenerateCommand(), args...)
	require.NoError(t, err)
	var result GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	id := result.Saved.ID

	oldNow := now
	now = func() time.Time { return result.Saved.SavedAt.Add(2 * time.Hour) }
	defer func() { now = oldNow }()

	out, err = execute(t, NewProjectsCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "2 hours ago")

	out, err = execute(t, NewProjectsCommand(), "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Slug: quote-rotator")

	_, err = execute(t, NewProjectsCommand(), "show", "missing")
	assert.Error(t, err)

	cli.SetGlobalFlags(true, true, true)
	_, err = execute(t, NewProjectsCommand(), "delete", id)
	require.NoError(t, err)

	out, err = execute(t, NewProjectsCommand(), "list", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"count": 0`)
}

func TestInspectCommand(t *testing.T) {
	setupProject(t)

	args := append([]string{"--out", "."}, quoteRotatorArgs...)
	_, err := execute(t, NewGenerateCommand(), args...)
	require.NoError(t, err)

	out, err := execute(t, NewInspectCommand(), "quote-rotator.zip", "-o", "json")
	require.NoError(t, err)
	var archive InspectResult
	require.NoError(t, json.Unmarshal([]byte(out), &archive))
	assert.Equal(t, "archive", archive.Kind)
	require.Len(t, archive.Entries, 2)
	assert.Equal(t, "quote-rotator/quote-rotator.php", archive.Entries[0].Path)

	out, err = execute(t, NewInspectCommand(), "quote-rotator-files.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Plugin: Quote Rotator")
	assert.Contains(t, out, "readme.txt")
	assert.Contains(t, out, "2 files")

	_, err = execute(t, NewInspectCommand(), "missing.zip")
	assert.Error(t, err)
}

func TestViewCommand_InvalidArtifact(t *testing.T) {
	dir := setupProject(t)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"Broken"}`), 0644))

	_, err := execute(t, NewViewCommand(), path, "--plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the plugin data is incomplete or invalid")
}

func TestTemplatesCommand(t *testing.T) {
	setupProject(t)

	out, err := execute(t, NewTemplatesCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "social-share")
	assert.Contains(t, out, "product-gallery")

	out, err = execute(t, NewTemplatesCommand(), "admin", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "seo-meta"`)
	assert.NotContains(t, out, "social-share")

	_, err = execute(t, NewTemplatesCommand(), "gizmo")
	assert.Error(t, err)

	out, err = execute(t, NewTemplatesCommand(), "preview", "related-posts")
	require.NoError(t, err)
	assert.Contains(t, out, "includes/class-related-posts-widget-widget.php")

	_, err = execute(t, NewTemplatesCommand(), "preview", "missing")
	assert.EqualError(t, err, "template 'missing' not found")
}

func TestGenerateCommand_FromTemplate(t *testing.T) {
	setupProject(t)

	out, err := execute(t, NewGenerateCommand(), "--template", "contact-form", "--no-text", "--no-archive", "-o", "json")
	require.NoError(t, err)

	var result GenerateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "simple-contact-form", result.Artifact.Slug)
	assert.Equal(t, models.CategoryShortcode, result.Artifact.Category)
	assert.Equal(t, "contact-form", result.Artifact.TemplateID)
}
