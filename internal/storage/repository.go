// Package storage is the portal's "local storage": a flat key/value store
// of opaque blobs. The document and the session snapshot each live under
// their own key.
package storage

import "context"

// Repository stores raw values by key.
//
// Get returns (nil, nil) for an absent key. Batch runs fn against a
// repository whose writes become visible together or not at all.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Batch(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
	Close() error
}
