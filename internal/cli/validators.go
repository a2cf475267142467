package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
	"github.com/plugingenius/plugingenius-cli/pkg/store"
)

// ValidateCategory accepts one of the six category values. The generator
// tolerates others, but on the command line they are almost always typos.
func ValidateCategory(c string) error {
	if models.Category(strings.ToLower(c)).Known() {
		return nil
	}
	values := make([]string, len(models.Categories))
	for i, cat := range models.Categories {
		values[i] = string(cat)
	}
	return fmt.Errorf("invalid plugin type: %s (must be one of: %s)", c, strings.Join(values, ", "))
}

// ValidateStoreDriver validates the --store flag
func ValidateStoreDriver(driver string) error {
	if Contains(store.Drivers, driver) {
		return nil
	}
	return fmt.Errorf("invalid store driver: %s (must be one of: %s)", driver, strings.Join(store.Drivers, ", "))
}

// ValidateFilePath validates that a file path exists and is a file
func ValidateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}

	return nil
}

// ValidateDirectoryPath validates that a directory path exists
func ValidateDirectoryPath(path string) error {
	if !filepath.IsAbs(path) {
		path, _ = filepath.Abs(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return fmt.Errorf("error accessing directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	return nil
}

// ValidateOutputFormat validates the output format flag
func ValidateOutputFormat(format string) error {
	if Contains(OutputFormats, format) {
		return nil
	}
	return fmt.Errorf("invalid output format: %s (must be: text, json, or yaml)", format)
}

// Contains checks if a string is in a slice
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
