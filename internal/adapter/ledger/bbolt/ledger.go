// Package bbolt provides a BoltDB-backed ledger. World state lives in one
// bucket; every key gets a nested history bucket keyed by a monotonic
// sequence number.
package bbolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"adledger/internal/core/port"
)

const (
	stateBucket   = "state"
	historyBucket = "history"
)

// Ledger implements port.Ledger on a BoltDB file.
type Ledger struct {
	db *bbolt.DB
}

// historyRecord is the stored form of a port.HistoryEntry.
type historyRecord struct {
	TxID      string    `json:"tx_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     []byte    `json:"value,omitempty"`
	IsDelete  bool      `json:"is_delete,omitempty"`
}

// Open opens (or creates) a ledger at path.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the underlying BoltDB database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func (l *Ledger) ensureBuckets() error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{stateBucket, historyBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// GetState returns the value under key, or nil.
func (l *Ledger) GetState(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var value []byte
	err := l.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(stateBucket)).Get([]byte(key)); v != nil {
			value = bytes.Clone(v)
		}
		return nil
	})
	return value, err
}

// PutState writes value and its history record in one transaction.
func (l *Ledger) PutState(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}
	txc, _ := port.TxFromContext(ctx)
	return l.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(stateBucket)).Put([]byte(key), value); err != nil {
			return fmt.Errorf("put state: %w", err)
		}
		return appendHistory(tx, key, historyRecord{TxID: txc.TxID, Timestamp: txc.Timestamp, Value: value})
	})
}

// DelState removes key and records the delete.
func (l *Ledger) DelState(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txc, _ := port.TxFromContext(ctx)
	return l.db.Update(func(tx *bbolt.Tx) error {
		state := tx.Bucket([]byte(stateBucket))
		if state.Get([]byte(key)) == nil {
			return nil
		}
		if err := state.Delete([]byte(key)); err != nil {
			return fmt.Errorf("delete state: %w", err)
		}
		return appendHistory(tx, key, historyRecord{TxID: txc.TxID, Timestamp: txc.Timestamp, IsDelete: true})
	})
}

func appendHistory(tx *bbolt.Tx, key string, rec historyRecord) error {
	bucket, err := tx.Bucket([]byte(historyBucket)).CreateBucketIfNotExists([]byte(key))
	if err != nil {
		return fmt.Errorf("create history bucket: %w", err)
	}
	seq, err := bucket.NextSequence()
	if err != nil {
		return fmt.Errorf("history sequence: %w", err)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return bucket.Put(sequenceKey(seq), payload)
}

func sequenceKey(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}

// GetStateByRange returns a lazy iterator backed by a read transaction that
// stays open until Close.
func (l *Ledger) GetStateByRange(ctx context.Context, startKey, endKey string) (port.StateIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := l.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	c := tx.Bucket([]byte(stateBucket)).Cursor()
	it := &stateIterator{tx: tx, cursor: c, end: []byte(endKey)}
	if startKey == "" {
		it.key, it.value = c.First()
	} else {
		it.key, it.value = c.Seek([]byte(startKey))
	}
	return it, nil
}

type stateIterator struct {
	tx     *bbolt.Tx
	cursor *bbolt.Cursor
	end    []byte
	key    []byte
	value  []byte
}

func (it *stateIterator) HasNext() bool {
	if it.tx == nil || it.key == nil {
		return false
	}
	return len(it.end) == 0 || bytes.Compare(it.key, it.end) < 0
}

func (it *stateIterator) Next() (port.KV, error) {
	if !it.HasNext() {
		return port.KV{}, port.ErrIteratorExhausted
	}
	kv := port.KV{Key: string(it.key), Value: bytes.Clone(it.value)}
	it.key, it.value = it.cursor.Next()
	return kv, nil
}

func (it *stateIterator) Close() error {
	if it.tx == nil {
		return nil
	}
	err := it.tx.Rollback()
	it.tx = nil
	return err
}

// GetHistoryForKey returns a lazy iterator over the history of key, oldest
// first.
func (l *Ledger) GetHistoryForKey(ctx context.Context, key string) (port.HistoryIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := l.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	it := &historyIterator{tx: tx}
	if bucket := tx.Bucket([]byte(historyBucket)).Bucket([]byte(key)); bucket != nil {
		it.cursor = bucket.Cursor()
		it.key, it.value = it.cursor.First()
	}
	return it, nil
}

type historyIterator struct {
	tx     *bbolt.Tx
	cursor *bbolt.Cursor
	key    []byte
	value  []byte
}

func (it *historyIterator) HasNext() bool {
	return it.tx != nil && it.key != nil
}

func (it *historyIterator) Next() (port.HistoryEntry, error) {
	if !it.HasNext() {
		return port.HistoryEntry{}, port.ErrIteratorExhausted
	}
	var rec historyRecord
	if err := json.Unmarshal(it.value, &rec); err != nil {
		return port.HistoryEntry{}, fmt.Errorf("unmarshal history: %w", err)
	}
	it.key, it.value = it.cursor.Next()
	return port.HistoryEntry{
		TxID:      rec.TxID,
		Timestamp: rec.Timestamp,
		Value:     rec.Value,
		IsDelete:  rec.IsDelete,
	}, nil
}

func (it *historyIterator) Close() error {
	if it.tx == nil {
		return nil
	}
	err := it.tx.Rollback()
	it.tx = nil
	return err
}
