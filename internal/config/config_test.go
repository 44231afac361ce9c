package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Generator.MaxAttempts != 100 || cfg.Generator.ExitType != 1 {
		t.Errorf("unexpected generator defaults %+v", cfg.Generator)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil || cfg.Preview.Address != ":8090" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
generator:
  width: 8
  max_attempts: 5
  loops: 3
  consolidate: true
  slots: [0x80, 0x81]
database:
  driver: postgres
  postgres:
    host: db
    port: 5433
preview:
  allowed_origins:
    - "https://example.com"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g := cfg.Generator
	if g.Width != 8 || g.MaxAttempts != 5 || g.Loops != 3 {
		t.Errorf("generator = %+v", g)
	}
	if g.Detours != 1 {
		t.Errorf("detours = %d, want default 1", g.Detours)
	}
	if !g.Consolidate || len(g.Slots) != 2 || g.Slots[1] != 0x81 {
		t.Errorf("slots = %v", g.Slots)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Postgres.Host != "db" || cfg.Database.Postgres.Port != 5433 {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Database.Postgres.SSLMode != "disable" {
		t.Errorf("sslmode = %q, want default", cfg.Database.Postgres.SSLMode)
	}
	if len(cfg.Preview.AllowedOrigins) != 1 {
		t.Errorf("origins = %v", cfg.Preview.AllowedOrigins)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too wide", "generator:\n  width: 17\n"},
		{"negative height", "generator:\n  height: -1\n"},
		{"no attempts", "generator:\n  max_attempts: 0\n"},
		{"wildcard exit type", "generator:\n  exit_type: 15\n"},
		{"consolidate without slots", "generator:\n  consolidate: true\n"},
		{"unknown driver", "database:\n  driver: oracle\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error = %v, want ErrInvalid", err)
			}
			if cfg.Generator.MaxAttempts != 100 {
				t.Errorf("expected defaults on error, got %+v", cfg.Generator)
			}
		})
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "generator: [")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		host    string
		want    bool
	}{
		{"same origin no header", nil, "", "localhost:8090", true},
		{"same origin matching host", nil, "http://localhost:8090", "localhost:8090", true},
		{"same origin trailing slash", nil, "http://localhost:8090/", "localhost:8090", true},
		{"same origin other host", nil, "http://evil.com", "localhost:8090", false},
		{"wildcard", []string{"*"}, "http://anything.com", "localhost:8090", true},
		{"exact match", []string{"https://example.com"}, "https://example.com", "localhost:8090", true},
		{"not listed", []string{"https://example.com"}, "http://localhost:8090", "localhost:8090", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := PreviewConfig{AllowedOrigins: tt.allowed}
			if got := cfg.IsOriginAllowed(tt.origin, tt.host); got != tt.want {
				t.Errorf("IsOriginAllowed(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
			}
		})
	}
}
