package kv

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Expiring is the fault-swallowing facade over a KV used by host code
// that must never fail on a storage problem. Every underlying error is
// converted to a boolean or a kept default and logged at debug level, so
// a rejected write (disk full, closed database) degrades the cache
// instead of the page.
type Expiring struct {
	store KV
	log   zerolog.Logger
}

// NewExpiring wraps a KV store.
func NewExpiring(store KV, log zerolog.Logger) *Expiring {
	return &Expiring{store: store, log: log}
}

// Set stores a value. A ttl of 0 means the entry never expires. Returns
// false when the underlying medium rejects the write.
func (e *Expiring) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	var err error
	if ttl > 0 {
		err = e.store.SetTTL(ctx, key, value, ttl)
	} else {
		err = e.store.Set(ctx, key, value)
	}
	if err != nil {
		e.log.Debug().Err(err).Str("key", key).Msg("kv set rejected")
		return false
	}
	return true
}

// Get deserializes the value for key into dest and returns true. When
// the key is absent, malformed, or expired, dest is left untouched so
// the caller keeps its default, and Get returns false.
func (e *Expiring) Get(ctx context.Context, key string, dest any) bool {
	if err := e.store.Get(ctx, key, dest); err != nil {
		e.log.Debug().Err(err).Str("key", key).Msg("kv get miss")
		return false
	}
	return true
}

// Remove deletes a key, tolerating underlying failures.
func (e *Expiring) Remove(ctx context.Context, key string) bool {
	if err := e.store.Delete(ctx, key); err != nil {
		e.log.Debug().Err(err).Str("key", key).Msg("kv remove failed")
		return false
	}
	return true
}

// Clear deletes all keys, tolerating underlying failures.
func (e *Expiring) Clear(ctx context.Context) bool {
	if err := e.store.Clear(ctx); err != nil {
		e.log.Debug().Err(err).Msg("kv clear failed")
		return false
	}
	return true
}
