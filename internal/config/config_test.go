package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Words != nil || cfg.Export.Dir != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := writeConfig(t, `
[practice]
size = "large"
words = 40
caps = 0.25
focus-weak = true

[export]
dir = "/tmp/reports"
format = "yaml"

[log]
level = "debug"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Practice.Size == nil || *cfg.Practice.Size != "large" {
		t.Fatalf("expected size large, got %v", cfg.Practice.Size)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != 40 {
		t.Fatalf("expected words 40, got %v", cfg.Practice.Words)
	}
	if cfg.Practice.CapsPct == nil || *cfg.Practice.CapsPct != 0.25 {
		t.Fatalf("expected caps 0.25, got %v", cfg.Practice.CapsPct)
	}
	if cfg.Practice.FocusWeak == nil || !*cfg.Practice.FocusWeak {
		t.Fatalf("expected focus-weak true")
	}
	if cfg.Practice.PunctPct != nil {
		t.Fatalf("unset punct should stay nil")
	}
	if cfg.Export.Format == nil || *cfg.Export.Format != "yaml" {
		t.Fatalf("expected export format yaml")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("expected log level debug")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := writeConfig(t, "[practice]\nspeed = 3\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "practice.speed") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[practice\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "typetester", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "typetester", "typetester.log") {
		t.Fatalf("unexpected log path %q", got)
	}
	if got := DefaultWordListPath("en"); got != filepath.Join("/cfg", "typetester", "wordlists", "en.txt") {
		t.Fatalf("unexpected word list path %q", got)
	}
}
