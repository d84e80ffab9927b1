package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("PROFILEPILOT_API_KEYS", "alice:k1, bob:k2")
	p := writeConfig(t, `
server:
  port: 9090
database:
  driver: mysql
  host: db
  port: 3306
  user: pilot
  password: secret
  name: profilepilot
ai:
  timeout: 30s
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 || cfg.AI.APIKey != "g-key" || cfg.AI.Timeout != 30*time.Second {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Auth.APIKeys["bob"] != "k2" {
		t.Fatalf("unexpected keys %v", cfg.Auth.APIKeys)
	}
	if got := cfg.MySQLDSN(); got != "pilot:secret@tcp(db:3306)/profilepilot?parseTime=true&charset=utf8mb4&loc=UTC" {
		t.Fatalf("unexpected dsn %s", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 || cfg.AI.Provider != "gemini" || cfg.AI.Timeout != time.Minute {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); !errors.Is(err, analysis.ErrConfiguration) {
		t.Fatalf("missing key should be a configuration error, got %v", err)
	}
}

func TestOpenAIProviderReadsOpenAIKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AI.APIKey != "o-key" {
		t.Fatalf("expected openai key, got %q", cfg.AI.APIKey)
	}
}

func TestParseAPIKeysSkipsMalformed(t *testing.T) {
	got := ParseAPIKeys("alice:k1,broken,:k3,carol:")
	if len(got) != 1 || got["alice"] != "k1" {
		t.Fatalf("unexpected keys %v", got)
	}
}
