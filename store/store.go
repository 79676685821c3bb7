// Package store defines the key-value store kaku keeps its
// authentication state in, along with the Redis implementation used
// in production and an in-memory one used by tests.
package store

import (
	"context"
	"time"
)

// Store is a mapping from string keys to either a plain string or a
// hash of named fields, with per-key expiry.
//
// Lookups report absence with the bool return; an error means the
// store could not be reached at all. Callers treat both the same way,
// as "not there", so an unavailable store degrades to unauthenticated
// behaviour rather than failing open.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// DeletePair removes two keys as one logical unit. It exists so a
	// token and its reverse index entry go together.
	DeletePair(ctx context.Context, a, b string) error

	HashGet(ctx context.Context, key string) (fields map[string]string, ok bool, err error)
	HashSetFields(ctx context.Context, key string, fields map[string]string) error
	HashDeleteField(ctx context.Context, key, field string) error

	Expire(ctx context.Context, key string, ttl time.Duration) error
}
