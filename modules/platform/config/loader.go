package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by Load. They take precedence over
// the config file.
const (
	EnvPort    = "SHELLVIZ_PORT"
	EnvURL     = "SHELLVIZ_URL"
	EnvShowURL = "SHELLVIZ_SHOW_URL"
)

// Load reads configuration from the given path, falling back to the
// standard search locations when path is empty. A missing file is not
// an error: defaults plus environment overrides are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindConfigFile()
	}

	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if cfg.Logger == nil {
			cfg.Logger = DefaultLoggerConfig()
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays recognized environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v, ok := strToInt(os.Getenv(EnvPort)); ok {
		cfg.Port = v
	}
	if v := os.Getenv(EnvURL); v != "" {
		cfg.URL = strings.TrimRight(v, "/")
	}
	if v, ok := strToBool(os.Getenv(EnvShowURL)); ok {
		cfg.ShowURL = v
	}
}

// FindConfigFile searches for the config file in standard locations:
// current directory, executable directory, then the user config dir.
func FindConfigFile() string {
	cwd, err := os.Getwd()
	if err == nil {
		configPath := filepath.Join(cwd, DefaultConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	execPath, err := os.Executable()
	if err == nil {
		configPath := filepath.Join(filepath.Dir(execPath), DefaultConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	if configDir, err := GetUserConfigDir(); err == nil {
		configPath := filepath.Join(configDir, DefaultConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	if cwd != "" {
		return filepath.Join(cwd, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

func strToBool(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

func strToInt(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
