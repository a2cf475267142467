package packager

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

const (
	featuresHeading = "Features"
	mainFilePrefix  = "Main Plugin File ("
)

// A trailing # run in the title would read as a closing sequence, and a
// description line opening a heading, fence, html block or setext underline
// would end the description early. Both get one extra leading backslash.
var (
	titleClose    = regexp.MustCompile(`(^|[ \t])(\\*#+[ \t]*)$`)
	titleUnescape = regexp.MustCompile(`(^|[ \t])\\(\\*#+[ \t]*)$`)
	blockStart    = regexp.MustCompile("(?m)^( {0,3})(\\\\*(?:[#<]|```|~~~|[-=]+[ \t]*$))")
	blockUnescape = regexp.MustCompile("(?m)^( {0,3})\\\\(\\\\*(?:[#<]|```|~~~|[-=]+[ \t]*$))")
)

// ErrMalformedText is returned when a document is not a text export
var ErrMalformedText = errors.New("not a plugin text export")

// TextFileName is the download name of the text export
func TextFileName(slug string) string {
	return slug + "-files.txt"
}

// BuildText renders the artifact as a single markdown document holding
// every file in a fenced block. Additional files appear in path order.
func BuildText(a *models.PluginArtifact) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", titleClose.ReplaceAllString(a.Name, `$1\$2`))
	if a.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", blockStart.ReplaceAllString(a.Description, `$1\$2`))
	}

	if len(a.Features) > 0 {
		fmt.Fprintf(&b, "## %s\n", featuresHeading)
		for _, f := range a.Features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## %s%s)\n", mainFilePrefix, a.MainFileName())
	writeFenced(&b, "php", a.MainFile)

	for _, path := range a.FilePaths() {
		fmt.Fprintf(&b, "## %s\n", path)
		writeFenced(&b, "", a.AdditionalFiles[path])
	}

	return b.String()
}

func writeFenced(b *strings.Builder, lang, content string) {
	fence := fenceFor(content)
	fmt.Fprintf(b, "%s%s\n%s\n%s\n\n", fence, lang, content, fence)
}

// fenceFor returns a backtick fence longer than any backtick run in content
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// ParseText recovers an artifact from a text export. Category and
// instructions are not part of the export and stay empty.
func ParseText(doc string) (*models.PluginArtifact, error) {
	src := []byte(doc)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	artifact := &models.PluginArtifact{AdditionalFiles: make(map[string]string)}
	var (
		section     string
		seenTitle   bool
		seenMain    bool
		titleEnd    = -1
		firstH2Line = -1
	)

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := rawLines(node, src, " ")
			switch {
			case node.Level == 1 && !seenTitle:
				seenTitle = true
				artifact.Name = titleUnescape.ReplaceAllString(heading, "$1$2")
				titleEnd = lineEnd(src, node)
			case node.Level == 2:
				if firstH2Line < 0 {
					firstH2Line = lineStart(src, node)
				}
				section = heading
			}

		case *ast.List:
			if section != featuresHeading {
				continue
			}
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if block := item.FirstChild(); block != nil {
					artifact.Features = append(artifact.Features, rawLines(block, src, " "))
				}
			}

		case *ast.FencedCodeBlock:
			content := codeContent(node, src)
			switch {
			case strings.HasPrefix(section, mainFilePrefix) && strings.HasSuffix(section, ")"):
				seenMain = true
				name := strings.TrimSuffix(strings.TrimPrefix(section, mainFilePrefix), ")")
				artifact.Slug = strings.TrimSuffix(name, ".php")
				artifact.MainFile = content
			case section != "" && section != featuresHeading:
				artifact.AdditionalFiles[section] = content
			}
			section = ""
		}
	}

	if !seenTitle || !seenMain {
		return nil, ErrMalformedText
	}

	if titleEnd >= 0 {
		end := len(src)
		if firstH2Line >= 0 {
			end = firstH2Line
		}
		if titleEnd < end {
			desc := strings.TrimSpace(string(src[titleEnd:end]))
			artifact.Description = blockUnescape.ReplaceAllString(desc, "$1$2")
		}
	}

	return artifact, nil
}

// rawLines joins the source lines of a block node
func rawLines(n ast.Node, src []byte, sep string) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(src)), "\r\n"))
	}
	return strings.TrimSpace(strings.Join(parts, sep))
}

// codeContent returns the fenced block body without the newline that
// precedes the closing fence.
func codeContent(n *ast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func lineStart(src []byte, n ast.Node) int {
	if n.Lines().Len() == 0 {
		return -1
	}
	pos := n.Lines().At(0).Start
	if i := bytes.LastIndexByte(src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

func lineEnd(src []byte, n ast.Node) int {
	if n.Lines().Len() == 0 {
		return -1
	}
	pos := n.Lines().At(n.Lines().Len() - 1).Stop
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}
