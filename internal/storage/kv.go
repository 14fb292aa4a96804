package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrClosed      = errors.New("kv store closed")
)

// KV is a small embedded key-value store.
//
// Implementations must be safe for concurrent use. Individual Set and
// Delete calls are atomic; there are no multi-key transactions.
type KV interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// Close releases the underlying medium.
	Close() error
}

// KVConfig configures a durable KV store.
type KVConfig struct {
	// Dir is the storage directory.
	Dir string

	// Badger-specific configuration
	Badger BadgerConfig
}

// BadgerConfig contains Badger tuning parameters sized for a small
// client-side store holding a handful of keys.
type BadgerConfig struct {
	// GCInterval is the interval between automatic value log GC runs.
	// Default: 30m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 1MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 16MB
	ValueLogFileSize int64

	// SyncWrites fsyncs after each write so a login survives a crash.
	// Default: true
	SyncWrites bool
}

// DefaultKVConfig returns the default KV configuration.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "30m",
		GCThreshold:      0.5,
		CacheSize:        1 << 20,
		ValueLogFileSize: 16 << 20,
		SyncWrites:       true,
	}
}
