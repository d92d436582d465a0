// Package storage provides database abstractions.
package storage

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix, in
	// ascending byte order of the keys. The callback receives a copy
	// of the key and value. Return a non-nil error from fn to stop
	// iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Batch stages writes that are applied atomically on Commit.
// A batch is single-use: after Commit it must be discarded.
// Cancel releases a batch that will not be committed; calling it
// after Commit is a no-op, so it is safe to defer.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
	Cancel()
}

// Batcher is implemented by databases that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}
