package warehouse

import (
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg := ParseConfig(map[string]any{})
	if cfg.Host != "localhost" || cfg.Port != 5432 {
		t.Errorf("defaults = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Table != "movies" {
		t.Errorf("default table = %s", cfg.Table)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("default ssl mode = %s", cfg.SSLMode)
	}
}

func TestParseConfigBuildsConnectionString(t *testing.T) {
	cfg := ParseConfig(map[string]any{
		"host":     "db.internal",
		"port":     5433,
		"database": "reelpipe",
		"user":     "loader",
		"password": "secret",
		"ssl_mode": "require",
	})
	for _, want := range []string{"host=db.internal", "port=5433", "dbname=reelpipe", "user=loader", "sslmode=require"} {
		if !strings.Contains(cfg.ConnectionString, want) {
			t.Errorf("connection string missing %q: %s", want, cfg.ConnectionString)
		}
	}
}

func TestParseConfigHonorsExplicitConnectionString(t *testing.T) {
	explicit := "host=a port=1 user=u password=p dbname=d sslmode=disable"
	cfg := ParseConfig(map[string]any{"connection_string": explicit})
	if cfg.ConnectionString != explicit {
		t.Errorf("connection string = %s", cfg.ConnectionString)
	}
}

func TestParseConfigAcceptsJSONNumbers(t *testing.T) {
	cfg := ParseConfig(map[string]any{"port": float64(6543)})
	if cfg.Port != 6543 {
		t.Errorf("port = %d, want 6543", cfg.Port)
	}
}
