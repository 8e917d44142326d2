package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:3000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("API.Timeout = %v, want none", cfg.API.Timeout)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "data/credentials.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Redis.KeyPrefix != "inventory:" {
		t.Errorf("Redis.KeyPrefix = %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Session.OfflinePolicy != "optimistic" {
		t.Errorf("Session.OfflinePolicy = %q", cfg.Session.OfflinePolicy)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("INVENTORY_API_BASEURL", "http://api.internal:9000")
	t.Setenv("INVENTORY_API_TIMEOUT", "15s")
	t.Setenv("INVENTORY_SERVER_ADDR", "0.0.0.0:4000")
	t.Setenv("INVENTORY_REDIS_DB", "3")

	cfg, err := Load([]string{"--addr", "127.0.0.1:5000", "--store", "redis", "--offline-policy", "strict"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://api.internal:9000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Server.Addr != "127.0.0.1:5000" {
		t.Errorf("Server.Addr = %q, want flag value", cfg.Server.Addr)
	}
	if cfg.Store.Driver != "redis" || cfg.Redis.DB != 3 {
		t.Errorf("Store.Driver = %q, Redis.DB = %d", cfg.Store.Driver, cfg.Redis.DB)
	}
	if cfg.Session.OfflinePolicy != "strict" {
		t.Errorf("Session.OfflinePolicy = %q", cfg.Session.OfflinePolicy)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	content := "api:\n  baseurl: http://file:8000\nstore:\n  path: /tmp/creds.db\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://file:8000" || cfg.Store.Path != "/tmp/creds.db" {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("Load() should fail for a missing explicit config file")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	if _, err := Load([]string{"--store", "etcd"}); err == nil {
		t.Fatal("Load() should reject an unknown store driver")
	}
	if _, err := Load([]string{"--no-such-flag"}); err == nil {
		t.Fatal("Load() should reject an unknown flag")
	}
}
