package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TypedKV narrows a KV store to one value type under one key
// namespace, so callers cannot collide with another component's keys
// or decode a value they did not write the shape of.
type TypedKV[T any] struct {
	store  KV
	prefix string
}

// Scoped returns a TypedKV[T] whose keys all live under "namespace:".
func Scoped[T any](store KV, namespace string) *TypedKV[T] {
	return &TypedKV[T]{
		store:  store,
		prefix: namespace + ":",
	}
}

// Get reads and deserializes the value at key. A missing or expired
// key reports ok false with a nil error; err carries real store
// failures only.
func (t *TypedKV[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var v T
	err := t.store.Get(ctx, t.prefix+key, &v)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, sql.ErrNoRows):
		var zero T
		return zero, false, nil
	default:
		var zero T
		return zero, false, err
	}
}

// Set stores a value with no expiry.
func (t *TypedKV[T]) Set(ctx context.Context, key string, value T) error {
	return t.store.Set(ctx, t.prefix+key, value)
}

// SetTTL stores a value that expires after the given duration.
func (t *TypedKV[T]) SetTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	return t.store.SetTTL(ctx, t.prefix+key, value, ttl)
}

// Delete removes a key.
func (t *TypedKV[T]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, t.prefix+key)
}
