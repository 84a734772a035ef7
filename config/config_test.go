package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "DB_DRIVER", "DB_RETRY_ATTEMPTS", "DB_RETRY_DELAY_MS", "GEMINI_STRUCTURED_OUTPUT", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.DBDriver != "postgres" || cfg.Env != "development" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Retry.Attempts != 3 || cfg.Retry.Delay != time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if !cfg.GeminiStructured {
		t.Fatalf("structured output is on by default")
	}
	if cfg.IsProduction() {
		t.Fatalf("development is not production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_RETRY_ATTEMPTS", "5")
	t.Setenv("DB_RETRY_DELAY_MS", "250")
	t.Setenv("GEMINI_STRUCTURED_OUTPUT", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	if !cfg.IsProduction() || cfg.DBDriver != "sqlite" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Retry.Attempts != 5 || cfg.Retry.Delay != 250*time.Millisecond {
		t.Fatalf("unexpected retry: %+v", cfg.Retry)
	}
	if cfg.GeminiStructured {
		t.Fatalf("structured output should be disabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := SQLiteDSN("journal.db"); got != "journal.db?_foreign_keys=on" {
		t.Fatalf("unexpected dsn: %s", got)
	}
	if got := SQLiteDSN("file:x.db?cache=shared"); got != "file:x.db?cache=shared&_foreign_keys=on" {
		t.Fatalf("unexpected dsn: %s", got)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(AppConfig{DBDriver: "mysql"}, nil); err == nil {
		t.Fatalf("unknown driver must fail")
	}
}
