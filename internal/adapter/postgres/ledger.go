package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adledger/internal/core/port"
)

// Ledger implements port.Ledger using pgxpool for PostgreSQL. World state
// is kept in ledger_state and every write is appended to ledger_history in
// the same transaction.
type Ledger struct {
	pool *pgxpool.Pool
}

// NewLedger returns a new ledger instance.
func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// GetState returns the value under key, or nil when absent.
func (l *Ledger) GetState(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := l.pool.QueryRow(ctx, `SELECT value FROM ledger_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// PutState upserts the value and appends a history row.
func (l *Ledger) PutState(ctx context.Context, key string, value []byte) error {
	txc := txContext(ctx)
	return l.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO ledger_state (key, value, tx_id, updated_at) VALUES ($1,$2,$3,$4)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, tx_id = EXCLUDED.tx_id, updated_at = EXCLUDED.updated_at`,
			key, value, txc.TxID, txc.Timestamp)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO ledger_history (key, tx_id, tx_timestamp, value, is_delete) VALUES ($1,$2,$3,$4,false)`,
			key, txc.TxID, txc.Timestamp, value)
		return err
	})
}

// DelState removes key and records the delete. Deleting an absent key is
// a no-op.
func (l *Ledger) DelState(ctx context.Context, key string) error {
	txc := txContext(ctx)
	return l.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM ledger_state WHERE key = $1`, key)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `INSERT INTO ledger_history (key, tx_id, tx_timestamp, value, is_delete) VALUES ($1,$2,$3,NULL,true)`,
			key, txc.TxID, txc.Timestamp)
		return err
	})
}

// GetStateByRange streams keys in [startKey, endKey) in byte order.
func (l *Ledger) GetStateByRange(ctx context.Context, startKey, endKey string) (port.StateIterator, error) {
	rows, err := l.pool.Query(ctx, `SELECT key, value FROM ledger_state
WHERE ($1 = '' OR key >= $1) AND ($2 = '' OR key < $2)
ORDER BY key`, startKey, endKey)
	if err != nil {
		return nil, err
	}
	return &rowIterator[port.KV]{rows: rows, scan: func(row pgx.Rows) (port.KV, error) {
		var kv port.KV
		err := row.Scan(&kv.Key, &kv.Value)
		return kv, err
	}}, nil
}

// GetHistoryForKey streams the history of key, oldest first.
func (l *Ledger) GetHistoryForKey(ctx context.Context, key string) (port.HistoryIterator, error) {
	rows, err := l.pool.Query(ctx, `SELECT tx_id, tx_timestamp, value, is_delete FROM ledger_history WHERE key = $1 ORDER BY id`, key)
	if err != nil {
		return nil, err
	}
	return &rowIterator[port.HistoryEntry]{rows: rows, scan: func(row pgx.Rows) (port.HistoryEntry, error) {
		var e port.HistoryEntry
		err := row.Scan(&e.TxID, &e.Timestamp, &e.Value, &e.IsDelete)
		e.Timestamp = e.Timestamp.UTC()
		return e, err
	}}, nil
}

func (l *Ledger) inTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	return fn(tx)
}

func txContext(ctx context.Context) port.TxContext {
	txc, _ := port.TxFromContext(ctx)
	if txc.Timestamp.IsZero() {
		txc.Timestamp = time.Now().UTC()
	}
	return txc
}

// rowIterator adapts pgx.Rows to the ledger iterators. The connection is
// held until Close.
type rowIterator[T any] struct {
	rows    pgx.Rows
	scan    func(pgx.Rows) (T, error)
	primed  bool
	present bool
}

func (it *rowIterator[T]) HasNext() bool {
	if it.rows == nil {
		return false
	}
	if !it.primed {
		it.present = it.rows.Next()
		it.primed = true
	}
	return it.present
}

func (it *rowIterator[T]) Next() (T, error) {
	var zero T
	if !it.HasNext() {
		if it.rows != nil {
			if err := it.rows.Err(); err != nil {
				return zero, err
			}
		}
		return zero, port.ErrIteratorExhausted
	}
	it.primed = false
	return it.scan(it.rows)
}

func (it *rowIterator[T]) Close() error {
	if it.rows == nil {
		return nil
	}
	it.rows.Close()
	err := it.rows.Err()
	it.rows = nil
	return err
}
