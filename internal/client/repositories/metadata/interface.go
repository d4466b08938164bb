// Package metadata persists small client-side values (the session) in the
// local SQLite database, keyed by fixed string names.
package metadata

import (
	"context"
)

// Repository is a string-keyed byte store.
//
// Get returns common.ErrorNotFound for an absent key. Delete removes every
// given key and is a no-op for keys that are not present.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
