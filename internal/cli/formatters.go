package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/xeonx/timeago"
	"gopkg.in/yaml.v3"

	"github.com/plugingenius/plugingenius-cli/pkg/utils"
)

// OutputFormats are the accepted values of --output
var OutputFormats = []string{"text", "json", "yaml"}

const columnGap = 2

// Table collects rows and writes them aligned on Flush. A table built with
// column names gets a header and a rule as wide as its rows.
type Table struct {
	w      io.Writer
	header []string
	rows   [][]string
}

// NewTable starts a table on w
func NewTable(w io.Writer, columns ...string) *Table {
	return &Table{w: w, header: columns}
}

// Row adds a row
func (t *Table) Row(values ...string) {
	t.rows = append(t.rows, values)
}

// Flush writes the table
func (t *Table) Flush() error {
	widths := t.widths()

	if len(t.header) > 0 {
		if err := t.line(t.header, widths); err != nil {
			return err
		}
		rule := columnGap * (len(widths) - 1)
		for _, w := range widths {
			rule += w
		}
		if _, err := fmt.Fprintln(t.w, strings.Repeat("-", rule)); err != nil {
			return err
		}
	}

	for _, row := range t.rows {
		if err := t.line(row, widths); err != nil {
			return err
		}
	}
	return nil
}

// widths measures display width so labels with symbols stay aligned
func (t *Table) widths() []int {
	var widths []int
	measure := func(cells []string) {
		for i, c := range cells {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) line(cells []string, widths []int) error {
	var b strings.Builder
	for i, c := range cells {
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(c)+columnGap))
		}
	}
	_, err := fmt.Fprintln(t.w, b.String())
	return err
}

// OutputResults writes data as json or yaml. Text callers print their own
// layout and only reach the plain %v fallback by mistake.
func OutputResults(w io.Writer, format string, data interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "text":
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// FormatBytes formats byte count in human-readable format
func FormatBytes(bytes int64) string {
	return utils.FormatBytes(bytes)
}

// FormatRelative renders t relative to now, e.g. "3 hours ago"
func FormatRelative(t, now time.Time) string {
	return timeago.NoMax(timeago.English).FormatReference(t, now)
}

// TruncateString cuts s to maxLen runes, ending in "..." when there is room
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
