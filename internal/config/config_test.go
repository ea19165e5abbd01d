//go:build !integration

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"isp-selfcare/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		path := writeConfig(t, `
database:
  url: postgres://localhost/selfcare
redis:
  url: localhost:6379
gateway:
  secret_key: sk_test_abc
  callback_url: https://portal.example/api/v1/billing/callback
`)
		cfg, err := config.LoadConfig(path, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("default port = %d", cfg.Server.Port)
		}
		if cfg.Gateway.BaseURL != "https://api.paystack.co" {
			t.Errorf("default gateway base url = %q", cfg.Gateway.BaseURL)
		}
		if cfg.Gateway.Timeout != 30*time.Second {
			t.Errorf("default gateway timeout = %v", cfg.Gateway.Timeout)
		}
		if cfg.Gateway.Currency != "NGN" {
			t.Errorf("default currency = %q", cfg.Gateway.Currency)
		}
		if cfg.Worker.ReconcileStaleAfter != 10*time.Minute {
			t.Errorf("default reconcile stale-after = %v", cfg.Worker.ReconcileStaleAfter)
		}
	})

	t.Run("should reject a config without gateway credentials", func(t *testing.T) {
		path := writeConfig(t, `
database:
  url: postgres://localhost/selfcare
redis:
  url: localhost:6379
gateway:
  callback_url: https://portal.example/cb
`)
		if _, err := config.LoadConfig(path, false); err == nil {
			t.Fatal("expected an error for the missing secret key")
		}
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
			t.Fatal("expected an error")
		}
	})
}
