package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig configures the vassist TUI.
type ClientConfig struct {
	// APIBase is the task API base URL, no trailing slash.
	APIBase string `yaml:"api_base"`

	// TokenPath is where the session token file lives. Empty means the
	// default under the user config dir.
	TokenPath string `yaml:"token_path"`

	// RequestTimeoutSec bounds every API call.
	RequestTimeoutSec int `yaml:"request_timeout_sec"`

	// DefaultGranularity is the calendar view opened at startup:
	// "day", "week" or "month".
	DefaultGranularity string `yaml:"default_granularity"`
}

// ServerConfig configures the vassistd API server.
type ServerConfig struct {
	Listen string `yaml:"listen"`
	DBPath string `yaml:"db_path"`

	// JWTSecret signs bearer tokens. Required for serving.
	JWTSecret string `yaml:"jwt_secret"`

	TokenTTLMinutes int `yaml:"token_ttl_minutes"`

	// ReminderCron schedules the sweep that loads upcoming reminders
	// into the in-process engine.
	ReminderCron string `yaml:"reminder_cron"`
}

type Config struct {
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
}

func Default() *Config {
	return &Config{
		Client: ClientConfig{
			APIBase:            "http://localhost:8000",
			RequestTimeoutSec:  15,
			DefaultGranularity: "week",
		},
		Server: ServerConfig{
			Listen:          "127.0.0.1:8000",
			DBPath:          "vassist.db",
			TokenTTLMinutes: 60,
			ReminderCron:    "* * * * *",
		},
	}
}

// Normalize fills missing fields so partially-filled configs still work.
func (c *Config) Normalize() {
	def := Default()
	if c.Client.APIBase == "" {
		c.Client.APIBase = def.Client.APIBase
	}
	c.Client.APIBase = strings.TrimRight(c.Client.APIBase, "/")
	if c.Client.RequestTimeoutSec <= 0 {
		c.Client.RequestTimeoutSec = def.Client.RequestTimeoutSec
	}
	switch c.Client.DefaultGranularity {
	case "day", "week", "month":
	default:
		c.Client.DefaultGranularity = def.Client.DefaultGranularity
	}
	if c.Server.Listen == "" {
		c.Server.Listen = def.Server.Listen
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = def.Server.DBPath
	}
	if c.Server.TokenTTLMinutes <= 0 {
		c.Server.TokenTTLMinutes = def.Server.TokenTTLMinutes
	}
	if c.Server.ReminderCron == "" {
		c.Server.ReminderCron = def.Server.ReminderCron
	}
}

// ApplyEnv overlays VASSIST_* environment variables on the config.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("VASSIST_API_BASE")); v != "" {
		c.Client.APIBase = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("VASSIST_TOKEN_PATH")); v != "" {
		c.Client.TokenPath = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv("VASSIST_REQUEST_TIMEOUT_SEC"))); err == nil && v > 0 {
		c.Client.RequestTimeoutSec = v
	}
	if v := strings.TrimSpace(os.Getenv("VASSIST_LISTEN")); v != "" {
		c.Server.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("VASSIST_DB_PATH")); v != "" {
		c.Server.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("VASSIST_JWT_SECRET")); v != "" {
		c.Server.JWTSecret = v
	}
}

func (c ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Load reads a YAML config file. A missing file yields defaults; the
// file is created on first run with 0600 permissions.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if saveErr := Save(path, cfg); saveErr != nil {
				return nil, fmt.Errorf("write initial config: %w", saveErr)
			}
			cfg.ApplyEnv()
			cfg.Normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyEnv()
	cfg.Normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, out, 0o600)
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "vassist.yaml"
	}
	return filepath.Join(base, "vassist", "config.yaml")
}
