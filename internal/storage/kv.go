package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrSkipWrite is returned from an UpdateFunc to leave the stored value as is.
	ErrSkipWrite = errors.New("storage: skip write")
)

// UpdateFunc receives the current value (found reports whether the key
// exists) and returns the value to store.
type UpdateFunc func(current string, found bool) (string, error)

// KV is a string key-value store with per-key atomic read-modify-write.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

// applyUpdate runs fn and tells the caller whether a write is needed.
func applyUpdate(fn UpdateFunc, current string, found bool) (string, bool, error) {
	next, err := fn(current, found)
	if errors.Is(err, ErrSkipWrite) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return next, true, nil
}
