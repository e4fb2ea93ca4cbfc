package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"adledger/internal/adapter/ledger/ledgertest"
	"adledger/internal/core/port"
)

func openTemp(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger(t *testing.T) {
	ledgertest.Run(t, func(t *testing.T) port.Ledger { return openTemp(t) })
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestReopenKeepsStateAndHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := port.WithTx(t.Context(), port.TxContext{TxID: "tx1"})

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.PutState(ctx, "a1", []byte(`{"v":1}`)))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	v, err := l.GetState(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, `{"v":1}`, string(v))

	require.NoError(t, l.PutState(ctx, "a1", []byte(`{"v":2}`)))
	it, err := l.GetHistoryForKey(ctx, "a1")
	require.NoError(t, err)
	defer it.Close()
	n := 0
	for it.HasNext() {
		_, err := it.Next()
		require.NoError(t, err)
		n++
	}
	require.Equal(t, 2, n)
}
