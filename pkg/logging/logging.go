package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates the diagnostic logger used across commands. An empty or
// unknown level falls back to info.
func New(name, level string, output io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  lvl,
		Output: output,
	})
}

// Discard returns a logger that drops everything, for tests and quiet mode
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}

// OrDiscard returns l, or a null logger when l is nil
func OrDiscard(l hclog.Logger) hclog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
