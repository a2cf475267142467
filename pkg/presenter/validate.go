package presenter

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// ErrInvalidArtifact marks an artifact that cannot be presented or packaged
var ErrInvalidArtifact = errors.New("the plugin data is incomplete or invalid")

const artifactSchema = `{
  "type": "object",
  "required": ["name", "slug", "mainFile"],
  "properties": {
    "name":        {"type": "string", "minLength": 1},
    "slug":        {"type": "string", "minLength": 1, "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
    "mainFile":    {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "type":        {"type": "string"},
    "features":    {"type": ["array", "null"], "items": {"type": "string"}},
    "additionalFiles": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"}
    },
    "instructions": {"type": "string"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(artifactSchema))
	})
	return schema, schemaErr
}

// Validate checks the artifact shape. Failures wrap ErrInvalidArtifact and
// name every offending field.
func Validate(a *models.PluginArtifact) error {
	if a == nil {
		return fmt.Errorf("%w: no plugin data", ErrInvalidArtifact)
	}

	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile artifact schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(a))
	if err != nil {
		return fmt.Errorf("failed to validate artifact: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidArtifact, strings.Join(problems, "; "))
}
