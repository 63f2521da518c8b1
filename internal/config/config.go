package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// AppConfig carries everything the checkers binary needs to host or join a
// session. Values come from defaults, then an optional YAML file pointed to by
// CHECKERS_CONFIG, then environment variable overrides.
type AppConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	ServerURL  string `yaml:"server_url"`

	PlayerName string `yaml:"player_name"`

	AcceptTimeoutSec int `yaml:"accept_timeout_sec"`
	DialTimeoutSec   int `yaml:"dial_timeout_sec"`
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:       ":4560",
		PlayerName:       "Player",
		AcceptTimeoutSec: 120,
		DialTimeoutSec:   10,
	}

	if path := strings.TrimSpace(os.Getenv("CHECKERS_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("CHECKERS_LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_SERVER_URL")); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_PLAYER_NAME")); v != "" {
		cfg.PlayerName = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_ACCEPT_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AcceptTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_DIAL_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DialTimeoutSec = n
		}
	}

	if cfg.ListenAddr == "" {
		return nil, errors.New("listen_addr is required")
	}
	if cfg.AcceptTimeoutSec <= 0 {
		return nil, errors.New("accept_timeout_sec must be positive")
	}
	if cfg.DialTimeoutSec <= 0 {
		return nil, errors.New("dial_timeout_sec must be positive")
	}

	return cfg, nil
}
