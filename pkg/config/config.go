// Package config loads settings from .plugingenius.yaml and PLUGINGENIUS_*
// environment variables on top of the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

const (
	FileName  = ".plugingenius.yaml"
	EnvPrefix = "PLUGINGENIUS"
)

var drivers = []string{"memory", "file", "sqlite", "sqlite3", "postgres", "postgresql", "mysql", "redis"}

// Load reads settings. An empty path searches the working directory for
// FileName and tolerates its absence; an explicit path must exist.
// The returned string is the file that was used, if any.
func Load(path string) (*models.Settings, string, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, models.DefaultSettings())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings := &models.Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, "", fmt.Errorf("failed to decode config: %w", err)
	}

	if err := Validate(settings); err != nil {
		return nil, "", err
	}

	return settings, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper, d *models.Settings) {
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.text", d.Output.Text)
	v.SetDefault("output.archive", d.Output.Archive)
	v.SetDefault("output.compression_level", d.Output.CompressionLevel)

	v.SetDefault("generator.delay", d.Generator.Delay)
	v.SetDefault("generator.author", d.Generator.Author)
	v.SetDefault("generator.author_uri", d.Generator.AuthorURI)

	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("store.redis_addr", d.Store.RedisAddr)
	v.SetDefault("store.redis_db", d.Store.RedisDB)
	v.SetDefault("store.key_prefix", d.Store.KeyPrefix)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
}

// Validate rejects settings the commands cannot work with
func Validate(s *models.Settings) error {
	if s.Output.CompressionLevel < -2 || s.Output.CompressionLevel > 9 {
		return fmt.Errorf("invalid output.compression_level %d (must be between -2 and 9)", s.Output.CompressionLevel)
	}
	if s.Generator.Delay < 0 {
		return fmt.Errorf("invalid generator.delay %s (must not be negative)", s.Generator.Delay)
	}

	driver := strings.ToLower(s.Store.Driver)
	for _, d := range drivers {
		if driver == d {
			return nil
		}
	}
	return fmt.Errorf("invalid store.driver %q (must be one of: memory, file, sqlite, postgres, mysql, redis)", s.Store.Driver)
}

// WriteDefault writes the default settings to path. It refuses to replace
// an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := yaml.Marshal(models.DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
