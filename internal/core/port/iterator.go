package port

// sliceIterator serves entries from an in-memory snapshot.
type sliceIterator[T any] struct {
	items  []T
	pos    int
	closed bool
}

func (it *sliceIterator[T]) HasNext() bool {
	return !it.closed && it.pos < len(it.items)
}

func (it *sliceIterator[T]) Next() (T, error) {
	var zero T
	if !it.HasNext() {
		return zero, ErrIteratorExhausted
	}
	item := it.items[it.pos]
	it.pos++
	return item, nil
}

func (it *sliceIterator[T]) Close() error {
	it.closed = true
	it.items = nil
	return nil
}

// NewSliceStateIterator returns a StateIterator over kvs.
func NewSliceStateIterator(kvs []KV) StateIterator {
	return &sliceIterator[KV]{items: kvs}
}

// NewSliceHistoryIterator returns a HistoryIterator over entries.
func NewSliceHistoryIterator(entries []HistoryEntry) HistoryIterator {
	return &sliceIterator[HistoryEntry]{items: entries}
}
