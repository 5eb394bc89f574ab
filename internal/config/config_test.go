package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.User != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
user = "sam"
exercise = "impromptu-response"
minutes = 1.5

[stats]
last = 20
curve-window = 5

[log]
level = "debug"

[catalog]
path = "/tmp/catalog.yaml"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.User == nil || *cfg.Practice.User != "sam" {
		t.Fatalf("user = %v", cfg.Practice.User)
	}
	if cfg.Practice.Minutes == nil || *cfg.Practice.Minutes != 1.5 {
		t.Fatalf("minutes = %v", cfg.Practice.Minutes)
	}
	if cfg.Stats.CurveWindow == nil || *cfg.Stats.CurveWindow != 5 {
		t.Fatalf("curve-window = %v", cfg.Stats.CurveWindow)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("level = %v", cfg.Log.Level)
	}
	if cfg.Catalog.Path == nil || *cfg.Catalog.Path != "/tmp/catalog.yaml" {
		t.Fatalf("catalog path = %v", cfg.Catalog.Path)
	}
	if cfg.Store.Path != nil {
		t.Fatalf("store path should be unset")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != "/cfg/articulate/config.toml" {
		t.Fatalf("config path = %q", got)
	}
	if got := DefaultDBPath(); got != "/data/articulate/articulate.db" {
		t.Fatalf("db path = %q", got)
	}
	if got := DefaultEnvPath(); got != "/cfg/articulate/.env" {
		t.Fatalf("env path = %q", got)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("ARTICULATE_USER=dotenv-user\nARTICULATE_LOG_LEVEL=info\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvUser, "")
	os.Unsetenv(EnvUser)
	t.Setenv(EnvLog, "error")

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if v, ok := Env(EnvUser); !ok || v != "dotenv-user" {
		t.Fatalf("user = %q", v)
	}
	if v, _ := Env(EnvLog); v != "error" {
		t.Fatalf("existing variable overwritten: %q", v)
	}
}
