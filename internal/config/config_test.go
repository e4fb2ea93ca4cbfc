package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adledger/internal/config/configs"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
	assert.Equal(t, "text", cfg.Log.SlogFormat())
	assert.Equal(t, configs.BackendMemory, cfg.Ledger.Backend)
	assert.False(t, cfg.Ledger.Seed)
	assert.Equal(t, "localhost:5432", cfg.Psql.Addr.Host)
	assert.False(t, cfg.Psql.RunMigrations)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "250ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LEDGER_BACKEND", "LevelDB")
	t.Setenv("LEDGER_PATH", "/var/lib/adledger")
	t.Setenv("LEDGER_SEED", "true")
	t.Setenv("PSQL_ADDRESS", "postgres://u:p@db:5433/ledger?sslmode=disable")
	t.Setenv("PSQL_MAX_CONNS", "8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, uint16(9090), cfg.HTTP.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.Equal(t, "json", cfg.Log.SlogFormat())
	kind, err := cfg.Ledger.Kind()
	require.NoError(t, err)
	assert.Equal(t, configs.BackendLevelDB, kind)
	assert.Equal(t, "/var/lib/adledger", cfg.Ledger.Path)
	assert.True(t, cfg.Ledger.Seed)
	assert.Equal(t, "db:5433", cfg.Psql.Addr.Host)
	assert.Equal(t, int32(8), cfg.Psql.MaxConns)
}

func TestLoadRejects(t *testing.T) {
	tests := map[string][2]string{
		"unknown backend": {"LEDGER_BACKEND", "redis"},
		"bad port":        {"HTTP_PORT", "http"},
		"bad duration":    {"HTTP_SHUTDOWN_TIMEOUT", "soon"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := configs.Logger{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("id", "a1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"id":"a1"`)
}
