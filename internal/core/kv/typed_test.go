package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedKV_RoundTrip(t *testing.T) {
	store := newMemKV()
	cache := Scoped[int](store, "counts")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "opened", 3))

	got, ok, err := cache.Get(ctx, "opened")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got)

	// The raw key carries the namespace prefix.
	_, rawOK := store.data["counts:opened"]
	assert.True(t, rawOK)
}

func TestTypedKV_MissIsNotAnError(t *testing.T) {
	cache := Scoped[string](newMemKV(), "ns")

	got, ok, err := cache.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got, "miss yields the zero value")
}

func TestTypedKV_ExpiredReadsAsMiss(t *testing.T) {
	cache := Scoped[string](newMemKV(), "ns")
	ctx := context.Background()

	require.NoError(t, cache.SetTTL(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypedKV_StoreFailureSurfaces(t *testing.T) {
	store := newMemKV()
	store.err = errors.New("medium rejected the read")
	cache := Scoped[string](store, "ns")

	_, ok, err := cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestTypedKV_Delete(t *testing.T) {
	cache := Scoped[int](newMemKV(), "ns")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", 1))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
