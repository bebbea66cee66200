package tui

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pulse/internal/core/notify"
)

func TestEventBuffer_PushDrain(t *testing.T) {
	b := NewEventBuffer()

	b.Push(notify.Event{Transition: notify.TransitionShown, Notification: notify.Notification{ID: "a"}})
	b.Push(notify.Event{Transition: notify.TransitionRemoving, Notification: notify.Notification{ID: "a"}})

	events := b.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, notify.TransitionShown, events[0].Transition)
	assert.Equal(t, notify.TransitionRemoving, events[1].Transition)

	assert.Nil(t, b.Drain(), "second drain should be empty")
}

func TestEventBuffer_SignalCoalesces(t *testing.T) {
	b := NewEventBuffer()

	for i := 0; i < 10; i++ {
		b.Push(notify.Event{Notification: notify.Notification{ID: "x"}})
	}

	// The signal channel has capacity 1, so a burst collapses to one
	// wakeup carrying all buffered events.
	msg := b.WaitForSignal()()
	assert.IsType(t, notifyEventsMsg{}, msg)
	assert.Len(t, b.Drain(), 10)
}

func TestEventBuffer_ConcurrentPush(t *testing.T) {
	b := NewEventBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Push(notify.Event{Notification: notify.Notification{ID: "c"}})
		}()
	}
	wg.Wait()

	assert.Len(t, b.Drain(), 20)
}
