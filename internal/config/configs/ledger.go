package configs

import (
	"fmt"
	"strings"
)

// Ledger backends selectable with LEDGER_BACKEND.
const (
	BackendMemory   = "memory"
	BackendBolt     = "bbolt"
	BackendLevelDB  = "leveldb"
	BackendPostgres = "postgres"
)

// Ledger selects and configures the world-state store. Path is the BoltDB
// file or LevelDB directory and is ignored by the memory and postgres
// backends. Seed writes the demo campaigns on startup.
type Ledger struct {
	Backend string `env:"BACKEND" envDefault:"memory"`
	Path    string `env:"PATH" envDefault:"adledger.db"`
	Seed    bool   `env:"SEED" envDefault:"false"`
}

// Kind returns the normalised backend name, or an error for an unknown one.
func (c Ledger) Kind() (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(c.Backend)); b {
	case BackendMemory, BackendBolt, BackendLevelDB, BackendPostgres:
		return b, nil
	default:
		return "", fmt.Errorf("unknown ledger backend %q", c.Backend)
	}
}
