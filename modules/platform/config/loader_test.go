package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if !cfg.ShowURL {
		t.Error("expected ShowURL default true")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	content := "port: 9100\nshow_url: false\nurl: http://viz.internal:9100\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Port)
	}
	if cfg.ShowURL {
		t.Error("expected ShowURL false")
	}
	if cfg.URL != "http://viz.internal:9100" {
		t.Errorf("unexpected url: %q", cfg.URL)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("port: [not an int\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("port: 9100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvPort, "9200")
	t.Setenv(EnvURL, "http://other:9200/")
	t.Setenv(EnvShowURL, "no")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9200 {
		t.Errorf("env port must win, got %d", cfg.Port)
	}
	if cfg.URL != "http://other:9200" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.URL)
	}
	if cfg.ShowURL {
		t.Error("expected ShowURL false from env")
	}
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv(EnvPort, "not-a-number")
	t.Setenv(EnvShowURL, "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("garbage port must be ignored, got %d", cfg.Port)
	}
	if !cfg.ShowURL {
		t.Error("garbage bool must be ignored")
	}
}
