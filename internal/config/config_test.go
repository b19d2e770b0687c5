package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "BACKEND", "DEV", "SESSION_SECRET", "APPER_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" || cfg.Database.Driver != "sqlite" || cfg.Backend.Kind != BackendStore {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Backend.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Backend.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("BACKEND", "apper")
	cfg := Load()
	if cfg.Database.Driver != "postgres" || cfg.Database.Port != 6543 || !cfg.App.Migrations {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("apper without credentials should not validate")
	}
}

func TestValidateSecretOutsideDev(t *testing.T) {
	t.Setenv("DEV", "0")
	t.Setenv("SESSION_SECRET", "")
	if err := Load().Validate(); err == nil {
		t.Fatalf("expected error for default secret in production")
	}
}

func TestValidateExposeNeedsPublicKey(t *testing.T) {
	t.Setenv("BACKEND_EXPOSE", "1")
	t.Setenv("APPER_PUBLIC_KEY", "")
	if err := Load().Validate(); err == nil {
		t.Fatalf("exposing the record API without a public key must not validate")
	}
	t.Setenv("APPER_PUBLIC_KEY", "pk")
	if err := Load().Validate(); err != nil {
		t.Fatalf("expose with key should validate: %v", err)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "crm", SSLMode: "disable"}
	if got := d.DSN(); got != "host=db port=5432 user=u password=p dbname=crm sslmode=disable" {
		t.Fatalf("unexpected dsn %q", got)
	}
	if got := d.URL(); got != "postgres://u:p@db:5432/crm?sslmode=disable" {
		t.Fatalf("unexpected url %q", got)
	}
	if got := (DatabaseConfig{Driver: "sqlite", SQLitePath: "x.db"}).DSN(); got != "x.db" {
		t.Fatalf("unexpected sqlite dsn %q", got)
	}
}
