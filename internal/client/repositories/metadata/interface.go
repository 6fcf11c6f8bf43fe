// Package metadata is the client's local key/value store. Values are opaque
// bytes; each write stamps the record with its time.
package metadata

import (
	"context"
	"time"
)

// Record is one stored key.
type Record struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns nil, nil when key is absent.
	Get(ctx context.Context, key string) (*Record, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for an absent key.
	Delete(ctx context.Context, key string) error
}
