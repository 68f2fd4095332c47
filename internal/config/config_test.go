package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Client.APIBase != "http://localhost:8000" {
		t.Fatalf("unexpected default api base: %q", cfg.Client.APIBase)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file created: %v", err)
	}
	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestLoadPartialConfigNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "client:\n  api_base: https://assistant.example.com/\nserver:\n  listen: :9000\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Client.APIBase != "https://assistant.example.com" {
		t.Fatalf("expected trailing slash stripped, got %q", cfg.Client.APIBase)
	}
	if cfg.Client.RequestTimeoutSec != 15 {
		t.Fatalf("expected default timeout, got %d", cfg.Client.RequestTimeoutSec)
	}
	if cfg.Server.Listen != ":9000" {
		t.Fatalf("expected listen preserved, got %q", cfg.Server.Listen)
	}
	if cfg.Server.TokenTTLMinutes != 60 {
		t.Fatalf("expected default token ttl, got %d", cfg.Server.TokenTTLMinutes)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("VASSIST_API_BASE", "http://api.internal:8000/")
	t.Setenv("VASSIST_JWT_SECRET", "sekrit")
	cfg := Default()
	cfg.ApplyEnv()
	cfg.Normalize()
	if cfg.Client.APIBase != "http://api.internal:8000" {
		t.Fatalf("env api base not applied: %q", cfg.Client.APIBase)
	}
	if cfg.Server.JWTSecret != "sekrit" {
		t.Fatalf("env jwt secret not applied: %q", cfg.Server.JWTSecret)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("client: ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
