package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("bcrypt cost = %d, want 12", cfg.Auth.BcryptCost)
	}
	if cfg.Planner.Timeout != 30*time.Second {
		t.Errorf("planner timeout = %v, want 30s", cfg.Planner.Timeout)
	}
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.yaml")
	yaml := `
server:
  port: "9090"
planner:
  url: http://agent.internal:4600
cache:
  schedule_ttl: 45s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Planner.URL != "http://agent.internal:4600" {
		t.Errorf("planner url = %q", cfg.Planner.URL)
	}
	if cfg.Cache.ScheduleTTL != 45*time.Second {
		t.Errorf("schedule ttl = %v, want 45s", cfg.Cache.ScheduleTTL)
	}
	// Untouched values keep their defaults.
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("pg max conns = %d, want default 15", cfg.Postgres.MaxConns)
	}
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STRIDE_PORT", "7070")
	t.Setenv("STRIDE_PLANNER_TIMEOUT", "5s")
	t.Setenv("STRIDE_AUTH_BCRYPT_COST", "10")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port = %q, want env value 7070", cfg.Server.Port)
	}
	if cfg.Planner.Timeout != 5*time.Second {
		t.Errorf("planner timeout = %v, want 5s", cfg.Planner.Timeout)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("bcrypt cost = %d, want 10", cfg.Auth.BcryptCost)
	}
}

func TestLoadFrom_RejectsInvalidConfig(t *testing.T) {
	t.Setenv("STRIDE_AUTH_BCRYPT_COST", "99")

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected validation error for bcrypt cost 99")
	}
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}
