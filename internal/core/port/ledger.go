package port

import (
	"context"
	"errors"
	"time"
)

// ErrIteratorExhausted is returned by Next once an iterator has no more
// entries.
var ErrIteratorExhausted = errors.New("iterator exhausted")

// KV is one entry of a range scan.
type KV struct {
	Key   string
	Value []byte
}

// HistoryEntry is one committed write to a key. Deletes are recorded with
// IsDelete set and no Value.
type HistoryEntry struct {
	TxID      string
	Timestamp time.Time
	Value     []byte
	IsDelete  bool
}

// StateIterator walks a range scan. It is single-pass and must be closed.
type StateIterator interface {
	HasNext() bool
	Next() (KV, error)
	Close() error
}

// HistoryIterator walks the write history of one key, oldest first. It is
// single-pass and must be closed.
type HistoryIterator interface {
	HasNext() bool
	Next() (HistoryEntry, error)
	Close() error
}

// Ledger is the world-state façade the asset operations run against. It is
// an outbound port; implementations live under internal/adapter.
//
// Writes are annotated in the key history with the TxContext attached to
// ctx by WithTx. Only single-key read-modify-write is assumed to be
// consistent.
type Ledger interface {
	// GetState returns the value stored under key, or nil when the key is
	// absent.
	GetState(ctx context.Context, key string) ([]byte, error)
	// PutState stores value under key and appends it to the key history.
	PutState(ctx context.Context, key string, value []byte) error
	// DelState removes key and records the deletion in its history.
	DelState(ctx context.Context, key string) error
	// GetStateByRange scans keys in [startKey, endKey) in byte order. An
	// empty bound leaves that side of the range open.
	GetStateByRange(ctx context.Context, startKey, endKey string) (StateIterator, error)
	// GetHistoryForKey returns every committed write to key, including
	// writes made before a delete.
	GetHistoryForKey(ctx context.Context, key string) (HistoryIterator, error)
}

// TxContext identifies the transaction an invocation runs in. The
// timestamp is the transaction time agreed by the platform, not the local
// clock of the executing node.
type TxContext struct {
	TxID      string
	Timestamp time.Time
}

type txKey struct{}

// WithTx attaches tx to ctx so ledger writes can record it in history.
func WithTx(ctx context.Context, tx TxContext) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the TxContext attached by WithTx, if any.
func TxFromContext(ctx context.Context) (TxContext, bool) {
	tx, ok := ctx.Value(txKey{}).(TxContext)
	return tx, ok
}
