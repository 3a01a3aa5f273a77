// Package store defines the key-value boundary the ledger persists through.
// Each backend stores opaque JSON documents under a small, fixed set of keys.
package store

import (
	"context"
	"errors"
)

// Keys written by the tracker.
const (
	KeySettings = "settings"
	KeySales    = "sales"
)

// ErrNotFound is returned by Load when the key has never been saved.
var ErrNotFound = errors.New("not found")

// Store is an opaque key-value store with whole-value load/save semantics.
type Store interface {
	// Load returns the value saved under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the value under key. When Save returns nil the value is durable.
	Save(ctx context.Context, key string, value []byte) error

	// Close releases connections or file handles held by the backend.
	Close() error
}
