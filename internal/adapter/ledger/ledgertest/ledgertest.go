// Package ledgertest holds the behaviour every port.Ledger backend must
// share. Backend packages call Run from their own tests.
package ledgertest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adledger/internal/core/port"
)

// Factory returns an empty ledger. Any cleanup is registered on t.
type Factory func(t *testing.T) port.Ledger

var base = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func txCtx(id string, offset time.Duration) context.Context {
	return port.WithTx(context.Background(), port.TxContext{TxID: id, Timestamp: base.Add(offset)})
}

// Run exercises newLedger against the port.Ledger contract.
func Run(t *testing.T, newLedger Factory) {
	t.Run("GetAbsent", func(t *testing.T) { testGetAbsent(t, newLedger(t)) })
	t.Run("PutGet", func(t *testing.T) { testPutGet(t, newLedger(t)) })
	t.Run("Range", func(t *testing.T) { testRange(t, newLedger(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newLedger(t)) })
	t.Run("History", func(t *testing.T) { testHistory(t, newLedger(t)) })
	t.Run("HistoryIsolation", func(t *testing.T) { testHistoryIsolation(t, newLedger(t)) })
	t.Run("Exhausted", func(t *testing.T) { testExhausted(t, newLedger(t)) })
}

func testGetAbsent(t *testing.T, l port.Ledger) {
	v, err := l.GetState(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func testPutGet(t *testing.T, l port.Ledger) {
	ctx := txCtx("tx1", 0)
	value := []byte(`{"ID":"a1"}`)
	require.NoError(t, l.PutState(ctx, "a1", value))

	// The ledger must not alias the caller's buffer.
	value[2] = 'X'

	got, err := l.GetState(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, `{"ID":"a1"}`, string(got))

	require.NoError(t, l.PutState(txCtx("tx2", time.Second), "a1", []byte(`{"ID":"a1","v":2}`)))
	got, err = l.GetState(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, `{"ID":"a1","v":2}`, string(got))
}

func collect(t *testing.T, it port.StateIterator) []string {
	t.Helper()
	defer func() { require.NoError(t, it.Close()) }()
	var keys []string
	for it.HasNext() {
		kv, err := it.Next()
		require.NoError(t, err)
		require.NotEmpty(t, kv.Value)
		keys = append(keys, kv.Key)
	}
	return keys
}

func testRange(t *testing.T, l port.Ledger) {
	ctx := txCtx("tx", 0)
	for _, k := range []string{"asset2", "b1", "asset10", "a1", "Asset"} {
		require.NoError(t, l.PutState(ctx, k, []byte(`{"ID":"`+k+`"}`)))
	}

	tests := []struct {
		name       string
		start, end string
		want       []string
	}{
		{name: "open", want: []string{"Asset", "a1", "asset10", "asset2", "b1"}},
		{name: "start only", start: "asset", want: []string{"asset10", "asset2", "b1"}},
		{name: "end only", end: "asset2", want: []string{"Asset", "a1", "asset10"}},
		{name: "bounded", start: "a1", end: "b1", want: []string{"a1", "asset10", "asset2"}},
		{name: "empty", start: "c", end: "d", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := l.GetStateByRange(context.Background(), tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, collect(t, it))
		})
	}
}

func testDelete(t *testing.T, l port.Ledger) {
	ctx := txCtx("tx1", 0)
	require.NoError(t, l.PutState(ctx, "a1", []byte(`{"ID":"a1"}`)))
	require.NoError(t, l.PutState(ctx, "a2", []byte(`{"ID":"a2"}`)))

	require.NoError(t, l.DelState(txCtx("tx2", time.Second), "a1"))
	v, err := l.GetState(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, v)

	it, err := l.GetStateByRange(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, collect(t, it))

	// Deleting an absent key is a no-op and leaves no history.
	require.NoError(t, l.DelState(ctx, "never"))
	hist, err := l.GetHistoryForKey(ctx, "never")
	require.NoError(t, err)
	assert.False(t, hist.HasNext())
	require.NoError(t, hist.Close())
}

func testHistory(t *testing.T, l port.Ledger) {
	require.NoError(t, l.PutState(txCtx("tx1", 0), "a1", []byte(`{"v":1}`)))
	require.NoError(t, l.PutState(txCtx("tx2", time.Second), "a1", []byte(`{"v":2}`)))
	require.NoError(t, l.DelState(txCtx("tx3", 2*time.Second), "a1"))
	require.NoError(t, l.PutState(txCtx("tx4", 3*time.Second), "a1", []byte(`{"v":4}`)))

	it, err := l.GetHistoryForKey(context.Background(), "a1")
	require.NoError(t, err)
	defer func() { require.NoError(t, it.Close()) }()

	var got []port.HistoryEntry
	for it.HasNext() {
		e, err := it.Next()
		require.NoError(t, err)
		got = append(got, e)
	}
	require.Len(t, got, 4)

	wantIDs := []string{"tx1", "tx2", "tx3", "tx4"}
	wantValues := []string{`{"v":1}`, `{"v":2}`, "", `{"v":4}`}
	for i, e := range got {
		assert.Equal(t, wantIDs[i], e.TxID)
		assert.True(t, e.Timestamp.Equal(base.Add(time.Duration(i)*time.Second)), "entry %d timestamp %s", i, e.Timestamp)
		assert.Equal(t, wantValues[i], string(e.Value))
		assert.Equal(t, i == 2, e.IsDelete)
	}
}

// Keys sharing a prefix must not see each other's writes.
func testHistoryIsolation(t *testing.T, l port.Ledger) {
	require.NoError(t, l.PutState(txCtx("tx1", 0), "a", []byte(`{"k":"a"}`)))
	require.NoError(t, l.PutState(txCtx("tx2", 0), "ab", []byte(`{"k":"ab"}`)))
	require.NoError(t, l.PutState(txCtx("tx3", 0), "ab", []byte(`{"k":"ab2"}`)))

	for key, want := range map[string]int{"a": 1, "ab": 2} {
		it, err := l.GetHistoryForKey(context.Background(), key)
		require.NoError(t, err)
		n := 0
		for it.HasNext() {
			_, err := it.Next()
			require.NoError(t, err)
			n++
		}
		require.NoError(t, it.Close())
		assert.Equal(t, want, n, key)
	}
}

func testExhausted(t *testing.T, l port.Ledger) {
	require.NoError(t, l.PutState(txCtx("tx1", 0), "a1", []byte(`{}`)))

	it, err := l.GetStateByRange(context.Background(), "", "")
	require.NoError(t, err)
	_, err = it.Next()
	require.NoError(t, err)
	assert.False(t, it.HasNext())
	_, err = it.Next()
	assert.ErrorIs(t, err, port.ErrIteratorExhausted)
	require.NoError(t, it.Close())
	assert.False(t, it.HasNext())

	hist, err := l.GetHistoryForKey(context.Background(), "a1")
	require.NoError(t, err)
	_, err = hist.Next()
	require.NoError(t, err)
	_, err = hist.Next()
	assert.ErrorIs(t, err, port.ErrIteratorExhausted)
	require.NoError(t, hist.Close())
}
