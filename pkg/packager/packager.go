// Package packager turns a plugin artifact into downloads: a plain text
// export and a zip archive. The two paths run independently so a failure
// in one never stops the other.
package packager

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/hashicorp/go-hclog"

	"github.com/plugingenius/plugingenius-cli/pkg/logging"
	"github.com/plugingenius/plugingenius-cli/pkg/metrics"
	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/presenter"
)

// Status is the aggregate outcome of a download
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Log collects the human readable lines of one download run. Lines are
// mirrored to the diagnostic logger at debug level.
type Log struct {
	mu     sync.Mutex
	lines  []string
	logger hclog.Logger
}

// NewLog creates a log mirrored to logger, which may be nil
func NewLog(logger hclog.Logger) *Log {
	return &Log{logger: logging.OrDiscard(logger)}
}

// Addf appends one line
func (l *Log) Addf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
	l.logger.Debug(line)
}

// Lines returns a copy of the collected lines
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// String joins the lines, one per row
func (l *Log) String() string {
	lines := l.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Result reports what a download run did
type Result struct {
	Status      Status   `json:"status" yaml:"status"`
	TextFile    string   `json:"textFile,omitempty" yaml:"textFile,omitempty"`
	ArchiveFile string   `json:"archiveFile,omitempty" yaml:"archiveFile,omitempty"`
	ArchiveSize int      `json:"archiveSize,omitempty" yaml:"archiveSize,omitempty"`
	Log         []string `json:"log" yaml:"log"`

	TextErr    error `json:"-" yaml:"-"`
	ArchiveErr error `json:"-" yaml:"-"`
	Err        error `json:"-" yaml:"-"`
}

// Message returns the error shown to the user, if any
func (r *Result) Message() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case r.TextErr != nil:
		return r.TextErr.Error()
	case r.Status == StatusError && r.ArchiveErr != nil:
		return r.ArchiveErr.Error()
	}
	return ""
}

// Packager delivers downloads to a sink
type Packager struct {
	sink    Sink
	level   int
	text    bool
	archive bool
	logger  hclog.Logger
	metrics *metrics.Recorder
}

// Option configures a Packager
type Option func(*Packager)

// WithCompressionLevel sets the DEFLATE level of the archive
func WithCompressionLevel(level int) Option {
	return func(p *Packager) { p.level = level }
}

// WithPaths enables or disables the text and archive paths
func WithPaths(text, archive bool) Option {
	return func(p *Packager) {
		p.text = text
		p.archive = archive
	}
}

func WithLogger(l hclog.Logger) Option {
	return func(p *Packager) { p.logger = l }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(p *Packager) { p.metrics = m }
}

// New creates a packager with both paths enabled
func New(sink Sink, opts ...Option) *Packager {
	p := &Packager{
		sink:    sink,
		level:   DefaultCompressionLevel,
		text:    true,
		archive: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrDiscard(p.logger)
	return p
}

// DownloadText builds the text export and delivers it as {slug}-files.txt
func (p *Packager) DownloadText(ctx context.Context, a *models.PluginArtifact, log *Log) (name string, err error) {
	defer func() { p.metrics.RecordDownload("text", err) }()
	defer recoverInto(log, &err, "Text download")

	log.Addf("Attempting direct text file download...")
	name = TextFileName(a.Slug)
	if err := p.sink.Deliver(ctx, name, []byte(BuildText(a))); err != nil {
		log.Addf("Text download error: %v", err)
		return "", err
	}
	log.Addf("Text file delivered: %s", name)
	return name, nil
}

// DownloadArchive builds the zip archive and delivers it as {slug}.zip
func (p *Packager) DownloadArchive(ctx context.Context, a *models.PluginArtifact, log *Log) (name string, size int, err error) {
	defer func() { p.metrics.RecordDownload("archive", err) }()
	defer recoverInto(log, &err, "ZIP creation")

	log.Addf("Attempting ZIP file creation...")
	data, err := BuildArchive(a, p.level, log.Addf)
	if err != nil {
		log.Addf("ZIP creation error: %v", err)
		return "", 0, err
	}
	log.Addf("ZIP file generated successfully. Size: %d bytes", len(data))

	name = ArchiveFileName(a.Slug)
	if err := p.sink.Deliver(ctx, name, data); err != nil {
		log.Addf("ZIP delivery error: %v", err)
		return "", 0, err
	}
	log.Addf("ZIP file delivered: %s", name)
	return name, len(data), nil
}

// Download runs every enabled path. The status is success when the text
// export was delivered, or when it is disabled and the archive was.
func (p *Packager) Download(ctx context.Context, a *models.PluginArtifact) *Result {
	log := NewLog(p.logger)
	result := &Result{Status: StatusError}
	defer func() { result.Log = log.Lines() }()

	log.Addf("Starting download process...")

	if err := presenter.Validate(a); err != nil {
		result.Err = err
		log.Addf("Error in download process: %v", err)
		return result
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
		log.Addf("Error in download process: %v", err)
		return result
	}

	if !p.text && !p.archive {
		result.Err = fmt.Errorf("no download path enabled")
		log.Addf("Error in download process: %v", result.Err)
		return result
	}

	if p.text {
		result.TextFile, result.TextErr = p.DownloadText(ctx, a, log)
	}
	if p.archive {
		result.ArchiveFile, result.ArchiveSize, result.ArchiveErr = p.DownloadArchive(ctx, a, log)
	}

	log.Addf("Download process completed")

	switch {
	case p.text && result.TextErr == nil:
		result.Status = StatusSuccess
	case !p.text && result.ArchiveErr == nil:
		result.Status = StatusSuccess
	}

	p.logger.Info("download finished", "slug", a.Slug, "status", result.Status,
		"text_error", result.TextErr, "archive_error", result.ArchiveErr)
	return result
}

func recoverInto(log *Log, err *error, what string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s panicked: %v", strings.ToLower(what), r)
		log.Addf("%s error: %v", what, *err)
	}
}

// Clipboard is the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes through atotto/clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// CopyText puts the text export on the clipboard
func CopyText(cb Clipboard, a *models.PluginArtifact) error {
	if err := presenter.Validate(a); err != nil {
		return err
	}
	if err := cb.WriteAll(BuildText(a)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
