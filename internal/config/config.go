package config

import (
	"github.com/caarlos0/env/v11"

	"adledger/internal/config/configs"
)

// Config aggregates all configuration sections for the ledger service.
// Fields are populated from environment variables using the caarlos0/env
// library; nested structs are parsed with their envPrefix. Use Load to
// construct a Config.
type Config struct {
	// Env names the deployment environment (e.g. prod, dev). It is attached
	// to every log line.
	Env string `env:"ENV" envDefault:"prod"`

	// HTTP configures the invocation endpoint (HTTP_*).
	HTTP configs.HTTP `envPrefix:"HTTP_"`

	// Log configures the structured logger (LOG_*).
	Log configs.Logger `envPrefix:"LOG_"`

	// Ledger selects the world-state backend (LEDGER_*).
	Ledger configs.Ledger `envPrefix:"LEDGER_"`

	// Psql configures the postgres backend (PSQL_).
	Psql configs.Postgres `envPrefix:"PSQL_"`
}

// Load reads configuration from environment variables into a Config. All
// fields fall back to their defaults when no variable is set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if _, err := cfg.Ledger.Kind(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
