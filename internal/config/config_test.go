package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Game.FPS != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[game]
fps = 30
focus-weak = true
weak-factor = 1.5

[ai]
coach-model = "gemini-3-flash-preview"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.FPS == nil || *cfg.Game.FPS != 30 {
		t.Fatalf("unexpected fps: %v", cfg.Game.FPS)
	}
	if cfg.Game.FocusWeak == nil || !*cfg.Game.FocusWeak {
		t.Fatalf("expected focus-weak")
	}
	if cfg.Game.WeakFactor == nil || *cfg.Game.WeakFactor != 1.5 {
		t.Fatalf("unexpected weak-factor")
	}
	if cfg.AI.CoachModel == nil || *cfg.AI.CoachModel != "gemini-3-flash-preview" {
		t.Fatalf("unexpected coach-model")
	}
	if cfg.AI.ScanModel != nil {
		t.Fatalf("expected scan-model unset")
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game]\nspeed = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("HACKBLITZ_SSH_PORT", "2323")
	t.Setenv("HACKBLITZ_DB_PATH", "/tmp/runs.db")
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.APIKey != "secret" || cfg.SSHPort != "2323" || cfg.SSHHost != "::" {
		t.Fatalf("unexpected env config: %+v", cfg)
	}
	if cfg.DBPath != "/tmp/runs.db" {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultDBPath(); got != filepath.Join("/data", "hackblitz", "hackblitz.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "hackblitz", "hackblitz.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}
