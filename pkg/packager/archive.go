package packager

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// DefaultCompressionLevel matches the strongest DEFLATE setting
const DefaultCompressionLevel = flate.BestCompression

// ArchiveFileName is the download name of the zip archive
func ArchiveFileName(slug string) string {
	return slug + ".zip"
}

// ArchiveEntries lists the entry names BuildArchive produces, in order
func ArchiveEntries(a *models.PluginArtifact) []string {
	entries := []string{path.Join(a.Slug, a.MainFileName())}
	for _, p := range a.FilePaths() {
		entries = append(entries, path.Join(a.Slug, p))
	}
	return entries
}

// BuildArchive zips the plugin under a folder named after its slug. Each
// step is reported through logf when it is not nil.
func BuildArchive(a *models.PluginArtifact, level int, logf func(format string, args ...interface{})) ([]byte, error) {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, fmt.Errorf("invalid compression level %d", level)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	logf("Created folder: %s", a.Slug)

	if err := addEntry(w, path.Join(a.Slug, a.MainFileName()), a.MainFile); err != nil {
		return nil, err
	}
	logf("Added main file: %s", a.MainFileName())

	paths := a.FilePaths()
	if len(paths) == 0 {
		logf("No additional files found")
	}
	for _, p := range paths {
		name := path.Join(a.Slug, p)
		if !strings.HasPrefix(name, a.Slug+"/") {
			return nil, fmt.Errorf("file path %q escapes the plugin folder", p)
		}
		if err := addEntry(w, name, a.AdditionalFiles[p]); err != nil {
			return nil, err
		}
		logf("Added additional file: %s", p)
	}

	logf("Generating ZIP file...")
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}

	return buf.Bytes(), nil
}

func addEntry(w *zip.Writer, name, content string) error {
	f, err := w.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", name, err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("failed to write zip entry %s: %w", name, err)
	}
	return nil
}

// Extract reads every file entry of a zip archive into memory
func Extract(data []byte) (map[string]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	files := make(map[string]string, len(reader.File))
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}

		files[f.Name] = string(content)
	}

	return files, nil
}

// SortedNames returns the entry names of an extracted archive
func SortedNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
