package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHECKERS_CONFIG", "")
	t.Setenv("CHECKERS_LISTEN_ADDR", "")
	t.Setenv("CHECKERS_PLAYER_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":4560" || cfg.PlayerName != "Player" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.AcceptTimeoutSec != 120 || cfg.DialTimeoutSec != 10 {
		t.Fatalf("default timeouts = %d/%d", cfg.AcceptTimeoutSec, cfg.DialTimeoutSec)
	}
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checkers.yaml")
	raw := "listen_addr: \":9000\"\nplayer_name: Alice\naccept_timeout_sec: 30\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CHECKERS_CONFIG", path)
	t.Setenv("CHECKERS_PLAYER_NAME", "Bob")
	t.Setenv("CHECKERS_LISTEN_ADDR", "")
	t.Setenv("CHECKERS_ACCEPT_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9000" || cfg.AcceptTimeoutSec != 30 {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.PlayerName != "Bob" {
		t.Fatalf("env override lost, player_name = %q", cfg.PlayerName)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CHECKERS_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted a broken YAML file")
	}
}
