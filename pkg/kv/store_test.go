package kv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	s := New[string, int]()

	s.Set("a", 1)
	s.Set("b", 2)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_KeysInsertionOrder(t *testing.T) {
	s := New[string, int]()

	s.Set("c", 3)
	s.Set("a", 1)
	s.Set("b", 2)

	assert.Equal(t, []string{"c", "a", "b"}, s.Keys())
	assert.Equal(t, []int{3, 1, 2}, s.Values())
}

func TestStore_OverwriteKeepsPosition(t *testing.T) {
	s := New[string, int]()

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 10)

	assert.Equal(t, []string{"a", "b"}, s.Keys())

	v, _ := s.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Delete(t *testing.T) {
	s := New[string, int]()

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	s.Delete("b")
	assert.Equal(t, []string{"a", "c"}, s.Keys())

	// Deleting a missing key is a no-op.
	s.Delete("missing")
	assert.Equal(t, 2, s.Len())
}

func TestStore_Clear(t *testing.T) {
	s := New[string, int]()

	s.Set("a", 1)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New[int, int]()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Set(i, i*2)
			s.Get(i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}
