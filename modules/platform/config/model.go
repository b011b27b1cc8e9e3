// Package config loads shellviz configuration from an optional YAML
// file with environment variable overrides.
package config

// Config represents the shellviz configuration surface.
type Config struct {
	// Port the hosting server listens on (and the port probed for an
	// existing server). 0 picks an ephemeral port, useful in tests.
	Port int `yaml:"port"`

	// URL is a fixed remote server address. When set, this process
	// never hosts: it always sends to the configured server, and an
	// unreachable server at startup is a hard error.
	URL string `yaml:"url,omitempty"`

	// ShowURL prints the viewer URL (and a QR code on interactive
	// terminals) when this process becomes the hosting server.
	ShowURL bool `yaml:"show_url"`

	// Logger configures the shared logger.
	Logger *LoggerConfig `yaml:"logger,omitempty"`
}

// LoggerConfig represents logger configuration.
type LoggerConfig struct {
	Level     string `yaml:"level"`               // debug, info, warn, error
	FilePath  string `yaml:"file_path,omitempty"` // log file path (empty = console only)
	MaxSizeMB int    `yaml:"max_size_mb,omitempty"`
}
