package utils

import (
	"fmt"
	"sort"
	"strings"
)

// CountLines returns the number of lines in text. A trailing newline does
// not start a new line.
func CountLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// FormatLineCount formats a line count for display
func FormatLineCount(lines int) string {
	if lines == 1 {
		return "1 line"
	}
	return fmt.Sprintf("%d lines", lines)
}

// FileStat describes one generated file
type FileStat struct {
	Path  string
	Lines int
	Bytes int
}

// Stats summarises a set of files, sorted by path
func Stats(files map[string]string) []FileStat {
	stats := make([]FileStat, 0, len(files))
	for path, content := range files {
		stats = append(stats, FileStat{
			Path:  path,
			Lines: CountLines(content),
			Bytes: len(content),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Path < stats[j].Path })
	return stats
}

// TotalBytes sums the sizes of stats
func TotalBytes(stats []FileStat) int {
	total := 0
	for _, s := range stats {
		total += s.Bytes
	}
	return total
}

// FormatBytes formats a byte count using binary units
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
