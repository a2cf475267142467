package tui

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/reflow/wordwrap"
)

var (
	stripPolicy = bluemonday.StrictPolicy()

	blockBreaks = strings.NewReplacer(
		"<li>", "\n- ",
		"</p>", "\n\n",
		"<br>", "\n",
		"<br/>", "\n",
		"</pre>", "\n\n",
		"</ol>", "\n\n",
		"</ul>", "\n\n",
	)

	gapBeforeItem = regexp.MustCompile(`\n\n+(  - )`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// InstructionsText turns the instructions HTML fragment into wrapped
// terminal text. Markup is dropped; list items become dashes.
func InstructionsText(fragment string, width int) string {
	text := stripPolicy.Sanitize(blockBreaks.Replace(fragment))
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			line = "  " + line
		}
		lines[i] = line
	}

	text = strings.Join(lines, "\n")
	text = gapBeforeItem.ReplaceAllString(text, "\n$1")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = strings.Trim(text, "\n")

	if width > 0 {
		text = wordwrap.String(text, width)
	}
	return text
}
