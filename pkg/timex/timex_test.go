package timex

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounce_OnlyLastCallRuns(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []int
	)

	debounced := Debounce(50*time.Millisecond, func(v int) {
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
	})

	for i := 1; i <= 5; i++ {
		debounced(i)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	assert.Equal(t, 5, calls[0], "debounce should fire with the last argument")
}

func TestDebounce_SeparateBursts(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)

	debounced := Debounce(20*time.Millisecond, func(v string) {
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
	})

	debounced("first")
	time.Sleep(60 * time.Millisecond)
	debounced("second")
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestThrottle_LeadingEdge(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []int
	)

	throttled := Throttle(100*time.Millisecond, func(v int) {
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
	})

	throttled(1)
	throttled(2)
	throttled(3)

	mu.Lock()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0], "first call runs immediately, rest are dropped")
	mu.Unlock()

	time.Sleep(120 * time.Millisecond)
	throttled(4)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.Equal(t, 4, calls[1], "next call after the window runs immediately")
}

func TestRelTime(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days ago", now.Add(-2 * 24 * time.Hour), "2 days ago"},
		{"older than a week", now.Add(-10 * 24 * time.Hour), "Mar 5, 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relTime(tt.t, now))
		})
	}
}
