package models

import "time"

// Settings represents the application configuration
type Settings struct {
	Output    OutputSettings    `yaml:"output" mapstructure:"output"`
	Generator GeneratorSettings `yaml:"generator" mapstructure:"generator"`
	Store     StoreSettings     `yaml:"store" mapstructure:"store"`
	Server    ServerSettings    `yaml:"server" mapstructure:"server"`
	Log       LogSettings       `yaml:"log" mapstructure:"log"`
}

// OutputSettings controls where and how downloads are written
type OutputSettings struct {
	Dir              string `yaml:"dir" mapstructure:"dir"`
	Text             bool   `yaml:"text" mapstructure:"text"`
	Archive          bool   `yaml:"archive" mapstructure:"archive"`
	CompressionLevel int    `yaml:"compression_level" mapstructure:"compression_level"`
}

// GeneratorSettings controls the template generator
type GeneratorSettings struct {
	Delay     time.Duration `yaml:"delay" mapstructure:"delay"`
	Author    string        `yaml:"author" mapstructure:"author"`
	AuthorURI string        `yaml:"author_uri" mapstructure:"author_uri"`
}

// StoreSettings selects the backend for saved projects
type StoreSettings struct {
	Driver    string `yaml:"driver" mapstructure:"driver"` // memory, file, sqlite, postgres, mysql or redis
	Path      string `yaml:"path" mapstructure:"path"`
	DSN       string `yaml:"dsn" mapstructure:"dsn"`
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisDB   int    `yaml:"redis_db" mapstructure:"redis_db"`
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// ServerSettings controls the HTTP surface
type ServerSettings struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogSettings controls diagnostic logging
type LogSettings struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Output: OutputSettings{
			Dir:              "./",
			Text:             true,
			Archive:          true,
			CompressionLevel: 9,
		},
		Generator: GeneratorSettings{
			Delay:     2 * time.Second,
			Author:    "PluginGenius",
			AuthorURI: "https://plugingenius.com",
		},
		Store: StoreSettings{
			Driver:    "file",
			Path:      ".plugingenius/projects.yaml",
			KeyPrefix: "plugingenius:",
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}
