package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

const (
	DataDir      = ".plugingenius"
	ArtifactsDir = "artifacts"
)

func InitProjectStructure() error {
	dirs := []string{
		DataDir,
		filepath.Join(DataDir, ArtifactsDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ProjectInitialized reports whether the data directory exists
func ProjectInitialized() bool {
	info, err := os.Stat(DataDir)
	return err == nil && info.IsDir()
}

// ArtifactPath is where the artifact for slug is kept
func ArtifactPath(slug string) string {
	return filepath.Join(DataDir, ArtifactsDir, slug+".json")
}

// ReadArtifact loads an artifact from a .json, .yaml or .yml file
func ReadArtifact(path string) (*models.PluginArtifact, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var artifact models.PluginArtifact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &artifact)
	default:
		err = json.Unmarshal(content, &artifact)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	return &artifact, nil
}

// WriteArtifact stores an artifact as indented JSON
func WriteArtifact(path string, artifact *models.PluginArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	return WriteFile(path, string(data)+"\n")
}

// ResolveArtifact accepts a file path or the slug of a kept artifact
func ResolveArtifact(ref string) (string, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}

	path := ArtifactPath(strings.TrimSuffix(ref, ".json"))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("no artifact file or kept artifact found matching '%s'", ref)
}

// ListArtifacts returns the slugs of kept artifacts in order
func ListArtifacts() ([]string, error) {
	dir := filepath.Join(DataDir, ArtifactsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var slugs []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			slugs = append(slugs, strings.TrimSuffix(entry.Name(), ".json"))
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// WriteFile writes content to a file
func WriteFile(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
