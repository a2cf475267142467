package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/utils"
)

func renderOverview(a *models.PluginArtifact, width int) string {
	var b strings.Builder

	b.WriteString(HeadingStyle.Render("PLUGIN"))
	b.WriteString("\n")
	writeField(&b, "Name", a.Name)
	writeField(&b, "Slug", a.Slug)
	writeField(&b, "Type", a.Category.Label())
	if a.TemplateID != "" {
		writeField(&b, "Template", a.TemplateID)
	}

	if a.Description != "" {
		b.WriteString("\n")
		b.WriteString(HeadingStyle.Render("DESCRIPTION"))
		b.WriteString("\n")
		desc := a.Description
		if width > 0 {
			desc = wordwrap.String(desc, width)
		}
		b.WriteString(desc)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HeadingStyle.Render("FEATURES"))
	b.WriteString("\n")
	for _, feature := range a.Features {
		b.WriteString("  • ")
		b.WriteString(feature)
		b.WriteString("\n")
	}

	files := map[string]string{a.MainFileName(): a.MainFile}
	for path, content := range a.AdditionalFiles {
		files[path] = content
	}
	stats := utils.Stats(files)

	b.WriteString("\n")
	b.WriteString(HeadingStyle.Render(fmt.Sprintf("FILES (%d, %s)", len(stats), utils.FormatBytes(int64(utils.TotalBytes(stats))))))
	b.WriteString("\n")
	for _, s := range stats {
		b.WriteString(fmt.Sprintf("  %s/%s %s\n", a.Slug, s.Path,
			DescriptionStyle.Render(fmt.Sprintf("(%s, %s)", utils.FormatLineCount(s.Lines), utils.FormatBytes(int64(s.Bytes))))))
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(DescriptionStyle.Render(label))
	b.WriteString(ColonStyle.Render(": "))
	b.WriteString(value)
	b.WriteString("\n")
}

// renderCode lists the main file first, then each additional file in path order.
func renderCode(a *models.PluginArtifact) string {
	var b strings.Builder
	writeCodeBlock(&b, a.MainFileName(), a.MainFile)
	for _, path := range a.FilePaths() {
		b.WriteString("\n")
		writeCodeBlock(&b, path, a.AdditionalFiles[path])
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeCodeBlock(b *strings.Builder, name, content string) {
	b.WriteString(HeadingStyle.Render("── " + name + " ──"))
	b.WriteString("\n")

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	digits := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		b.WriteString(DescriptionStyle.Render(fmt.Sprintf("%*d ", digits, i+1)))
		b.WriteString(line)
		b.WriteString("\n")
	}
}

// RenderPlain renders every tab one after another, for output that is not
// an interactive terminal.
func RenderPlain(a *models.PluginArtifact, width int) string {
	sections := []string{
		renderOverview(a, width),
		HeadingStyle.Render("CODE") + "\n" + renderCode(a),
		HeadingStyle.Render("INSTRUCTIONS") + "\n" + InstructionsText(a.Instructions, width),
	}
	return strings.Join(sections, "\n\n") + "\n"
}
