package types

import "errors"

// KV is the synchronous key-value store the tally state is persisted to.
// Values are opaque byte blobs.
type KV interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if nothing is stored.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting a missing key succeeds.
	Delete(key string) error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Persistence errors.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrStoreClosed = errors.New("store is closed")
)
