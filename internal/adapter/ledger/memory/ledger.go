// Package memory provides an in-process ledger. It keeps world state and
// the full write history of every key and is used for development and
// tests.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"adledger/internal/core/port"
)

// Ledger implements port.Ledger in memory. It is safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	state   map[string][]byte
	history map[string][]port.HistoryEntry
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		state:   make(map[string][]byte),
		history: make(map[string][]port.HistoryEntry),
	}
}

// GetState returns a copy of the value under key, or nil.
func (l *Ledger) GetState(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.state[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

// PutState stores a copy of value.
func (l *Ledger) PutState(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, _ := port.TxFromContext(ctx)
	v := bytes.Clone(value)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state[key] = v
	l.history[key] = append(l.history[key], port.HistoryEntry{
		TxID:      tx.TxID,
		Timestamp: tx.Timestamp,
		Value:     v,
	})
	return nil
}

// DelState removes key. Deleting an absent key is not an error.
func (l *Ledger) DelState(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, _ := port.TxFromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.state[key]; !ok {
		return nil
	}
	delete(l.state, key)
	l.history[key] = append(l.history[key], port.HistoryEntry{
		TxID:      tx.TxID,
		Timestamp: tx.Timestamp,
		IsDelete:  true,
	})
	return nil
}

// GetStateByRange snapshots the matching keys in byte order.
func (l *Ledger) GetStateByRange(ctx context.Context, startKey, endKey string) (port.StateIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	kvs := make([]port.KV, 0, len(l.state))
	for k, v := range l.state {
		if startKey != "" && k < startKey {
			continue
		}
		if endKey != "" && k >= endKey {
			continue
		}
		kvs = append(kvs, port.KV{Key: k, Value: bytes.Clone(v)})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].Key < kvs[j].Key })
	return port.NewSliceStateIterator(kvs), nil
}

// GetHistoryForKey snapshots the history of key, oldest first.
func (l *Ledger) GetHistoryForKey(ctx context.Context, key string) (port.HistoryIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	src := l.history[key]
	entries := make([]port.HistoryEntry, len(src))
	for i, e := range src {
		e.Value = bytes.Clone(e.Value)
		entries[i] = e
	}
	return port.NewSliceHistoryIterator(entries), nil
}
