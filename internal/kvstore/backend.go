// Package kvstore persists opaque values under string keys. The
// application keeps its whole dataset and the signed-in session each as
// one JSON value, so a backend only needs get, set and delete.
package kvstore

import (
	"context"
	"errors"
)

// Backend is a durable key-value store.
type Backend interface {
	// Get returns the stored bytes. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kvstore: backend closed")
