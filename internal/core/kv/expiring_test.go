package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is a map-backed KV for facade tests.
type memKV struct {
	data map[string]memEntry
	err  error // when set, every operation fails with it
}

type memEntry struct {
	value    json.RawMessage
	expireAt time.Time
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]memEntry)}
}

func (m *memKV) Get(_ context.Context, key string, dest any) error {
	if m.err != nil {
		return m.err
	}
	e, ok := m.data[key]
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	if !e.expireAt.IsZero() && !e.expireAt.After(time.Now()) {
		delete(m.data, key)
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	return json.Unmarshal(e.value, dest)
}

func (m *memKV) Set(_ context.Context, key string, value any) error {
	return m.put(key, value, time.Time{})
}

func (m *memKV) SetTTL(_ context.Context, key string, value any, ttl time.Duration) error {
	return m.put(key, value, time.Now().Add(ttl))
}

func (m *memKV) put(key string, value any, expireAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = memEntry{value: data, expireAt: expireAt}
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.data, key)
	return nil
}

func (m *memKV) Has(_ context.Context, key string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.data[key]
	return ok, nil
}

func (m *memKV) ListKeys(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *memKV) GetRaw(_ context.Context, key string) (Entry, error) {
	if m.err != nil {
		return Entry{}, m.err
	}
	e, ok := m.data[key]
	if !ok {
		return Entry{}, fmt.Errorf("kv get raw %q: %w", key, sql.ErrNoRows)
	}
	return Entry{Key: key, Value: e.value}, nil
}

func (m *memKV) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.data = make(map[string]memEntry)
	return nil
}

var _ KV = (*memKV)(nil)

func TestExpiring_SetGet(t *testing.T) {
	e := NewExpiring(newMemKV(), zerolog.Nop())
	ctx := context.Background()

	require.True(t, e.Set(ctx, "k", "hello", 0))

	got := "default"
	require.True(t, e.Get(ctx, "k", &got))
	assert.Equal(t, "hello", got)
}

func TestExpiring_MissKeepsDefault(t *testing.T) {
	e := NewExpiring(newMemKV(), zerolog.Nop())

	got := "default"
	assert.False(t, e.Get(context.Background(), "absent", &got))
	assert.Equal(t, "default", got, "dest untouched on miss")
}

func TestExpiring_TTL(t *testing.T) {
	e := NewExpiring(newMemKV(), zerolog.Nop())
	ctx := context.Background()

	require.True(t, e.Set(ctx, "k", 42, 20*time.Millisecond))

	var got int
	require.True(t, e.Get(ctx, "k", &got))
	assert.Equal(t, 42, got)

	time.Sleep(40 * time.Millisecond)

	got = -1
	assert.False(t, e.Get(ctx, "k", &got))
	assert.Equal(t, -1, got)
}

func TestExpiring_FailuresReturnFalse(t *testing.T) {
	store := newMemKV()
	store.err = errors.New("medium rejected the write")
	e := NewExpiring(store, zerolog.Nop())
	ctx := context.Background()

	assert.False(t, e.Set(ctx, "k", "v", 0))
	assert.False(t, e.Remove(ctx, "k"))
	assert.False(t, e.Clear(ctx))

	var got string
	assert.False(t, e.Get(ctx, "k", &got))
}

func TestExpiring_RemoveAndClear(t *testing.T) {
	e := NewExpiring(newMemKV(), zerolog.Nop())
	ctx := context.Background()

	require.True(t, e.Set(ctx, "a", 1, 0))
	require.True(t, e.Set(ctx, "b", 2, 0))

	assert.True(t, e.Remove(ctx, "a"))
	var got int
	assert.False(t, e.Get(ctx, "a", &got))

	assert.True(t, e.Clear(ctx))
	assert.False(t, e.Get(ctx, "b", &got))
}
