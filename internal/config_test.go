package internal

import (
	"os"
	"path/filepath"
	"testing"

	pkgconfig "github.com/nasby/ansuz/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth should default to disabled")
	}
}

func TestLoadConfigWithEnvExpansion(t *testing.T) {
	t.Setenv("TEST_ANSUZ_TOKEN", "sekrit")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  http:
    port: 9090
data:
  dir: /tmp/ansuz-data
auth:
  mode: token
  token: ${TEST_ANSUZ_TOKEN}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.App.HTTP.Port)
	}
	if cfg.Auth.Token != "sekrit" {
		t.Errorf("token = %q, want env-expanded value", cfg.Auth.Token)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Error("token mode should enable auth")
	}
}

func TestAuthValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModeToken
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Error("token mode without token should fail validation")
	}

	cfg.Auth.Mode = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown auth mode should fail validation")
	}
}

func TestInboxValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Inbox.Enabled = true
	cfg.Inbox.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("enabled inbox without dir should fail validation")
	}
}

func TestHTTPAddress(t *testing.T) {
	c := HTTPConfig{Port: 8080}
	if c.Address() != ":8080" {
		t.Errorf("address = %q", c.Address())
	}
}
