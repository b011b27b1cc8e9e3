package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultPort is the port shellviz servers listen on.
	DefaultPort = 5544

	// DefaultConfigFileName is the default config file name.
	DefaultConfigFileName = "shellviz.yaml"
)

// DefaultConfig returns the configuration used when no file and no
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Port:    DefaultPort,
		ShowURL: true,
		Logger:  DefaultLoggerConfig(),
	}
}

// DefaultLoggerConfig returns default logger configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     "info",
		MaxSizeMB: 10,
	}
}

// GetUserConfigDir returns the user's config directory for shellviz.
func GetUserConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "shellviz"), nil
}
