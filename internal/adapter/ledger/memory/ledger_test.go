package memory

import (
	"testing"

	"adledger/internal/adapter/ledger/ledgertest"
	"adledger/internal/core/port"
)

func TestLedger(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) port.Ledger { return NewLedger() })
}
