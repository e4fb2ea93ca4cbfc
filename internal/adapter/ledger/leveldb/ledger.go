// Package leveldb provides a LevelDB-backed ledger.
//
// The key space is split by a one-byte prefix:
//
//	's' + key                         world state
//	'h' + len(key) + key + seq        history entries, seq big-endian
//	'q'                               last history sequence number
//
// State and history for a write are committed in one batch.
package leveldb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"adledger/internal/core/port"
)

const (
	statePrefix   byte = 's'
	historyPrefix byte = 'h'
	sequenceKey   byte = 'q'
)

// Ledger implements port.Ledger on a LevelDB directory.
type Ledger struct {
	db *leveldb.DB

	// mu serialises writers so the history sequence stays gap free.
	mu  sync.Mutex
	seq uint64
}

type historyRecord struct {
	TxID      string    `json:"tx_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     []byte    `json:"value,omitempty"`
	IsDelete  bool      `json:"is_delete,omitempty"`
}

// Open opens (or creates) a ledger in the directory at path.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	l := &Ledger{db: db}
	v, err := db.Get([]byte{sequenceKey}, nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
	case err != nil:
		_ = db.Close()
		return nil, fmt.Errorf("read history sequence: %w", err)
	case len(v) == 8:
		l.seq = binary.BigEndian.Uint64(v)
	default:
		_ = db.Close()
		return nil, fmt.Errorf("corrupt history sequence")
	}
	return l, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

func stateKey(key string) []byte {
	return append([]byte{statePrefix}, key...)
}

func historyKeyPrefix(key string) []byte {
	b := make([]byte, 0, 1+4+len(key))
	b = append(b, historyPrefix)
	b = binary.BigEndian.AppendUint32(b, uint32(len(key)))
	return append(b, key...)
}

// GetState returns the value under key, or nil.
func (l *Ledger) GetState(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := l.db.Get(stateKey(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

// PutState writes value and its history record atomically.
func (l *Ledger) PutState(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}
	txc, _ := port.TxFromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	batch := new(leveldb.Batch)
	batch.Put(stateKey(key), value)
	return l.commit(batch, key, historyRecord{TxID: txc.TxID, Timestamp: txc.Timestamp, Value: value})
}

// DelState removes key and records the delete.
func (l *Ledger) DelState(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txc, _ := port.TxFromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	ok, err := l.db.Has(stateKey(key), nil)
	if err != nil || !ok {
		return err
	}
	batch := new(leveldb.Batch)
	batch.Delete(stateKey(key))
	return l.commit(batch, key, historyRecord{TxID: txc.TxID, Timestamp: txc.Timestamp, IsDelete: true})
}

// commit appends rec to the history of key and writes batch. l.mu must be
// held.
func (l *Ledger) commit(batch *leveldb.Batch, key string, rec historyRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	seq := l.seq + 1
	hk := binary.BigEndian.AppendUint64(historyKeyPrefix(key), seq)
	batch.Put(hk, payload)
	batch.Put([]byte{sequenceKey}, binary.BigEndian.AppendUint64(nil, seq))
	if err := l.db.Write(batch, nil); err != nil {
		return err
	}
	l.seq = seq
	return nil
}

// GetStateByRange returns a lazy iterator over a consistent snapshot.
func (l *Ledger) GetStateByRange(ctx context.Context, startKey, endKey string) (port.StateIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := &ldb_util.Range{Start: stateKey(startKey), Limit: []byte{statePrefix + 1}}
	if endKey != "" {
		r.Limit = stateKey(endKey)
	}
	return &stateIterator{lookahead{iter: l.db.NewIterator(r, nil)}}, nil
}

// GetHistoryForKey returns a lazy iterator over the history of key, oldest
// first.
func (l *Ledger) GetHistoryForKey(ctx context.Context, key string) (port.HistoryIterator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	iter := l.db.NewIterator(ldb_util.BytesPrefix(historyKeyPrefix(key)), nil)
	return &historyIterator{lookahead{iter: iter}}, nil
}

// lookahead adapts leveldb's Next-then-read iterator to HasNext/Next.
type lookahead struct {
	iter    iterator.Iterator
	primed  bool
	present bool
}

func (la *lookahead) hasNext() bool {
	if la.iter == nil {
		return false
	}
	if !la.primed {
		la.present = la.iter.Next()
		la.primed = true
	}
	return la.present
}

// take returns copies of the current entry and advances.
func (la *lookahead) take() ([]byte, []byte, error) {
	if !la.hasNext() {
		if la.iter != nil {
			if err := la.iter.Error(); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, port.ErrIteratorExhausted
	}
	k := bytes.Clone(la.iter.Key())
	v := bytes.Clone(la.iter.Value())
	la.primed = false
	return k, v, nil
}

func (la *lookahead) close() error {
	if la.iter == nil {
		return nil
	}
	err := la.iter.Error()
	la.iter.Release()
	la.iter = nil
	return err
}

type stateIterator struct {
	la lookahead
}

func (it *stateIterator) HasNext() bool { return it.la.hasNext() }

func (it *stateIterator) Next() (port.KV, error) {
	k, v, err := it.la.take()
	if err != nil {
		return port.KV{}, err
	}
	return port.KV{Key: string(k[1:]), Value: v}, nil
}

func (it *stateIterator) Close() error { return it.la.close() }

type historyIterator struct {
	la lookahead
}

func (it *historyIterator) HasNext() bool { return it.la.hasNext() }

func (it *historyIterator) Next() (port.HistoryEntry, error) {
	_, v, err := it.la.take()
	if err != nil {
		return port.HistoryEntry{}, err
	}
	var rec historyRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return port.HistoryEntry{}, fmt.Errorf("unmarshal history: %w", err)
	}
	return port.HistoryEntry{
		TxID:      rec.TxID,
		Timestamp: rec.Timestamp,
		Value:     rec.Value,
		IsDelete:  rec.IsDelete,
	}, nil
}

func (it *historyIterator) Close() error { return it.la.close() }
