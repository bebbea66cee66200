package tui

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/pulse/internal/core/notify"
)

// notifyEventsMsg signals that buffered notification events are ready
// to drain.
type notifyEventsMsg struct{}

// EventBuffer bridges notification lifecycle events from background
// goroutines into the Bubble Tea update loop. Events are buffered and
// coalesced into a single drain signal so a burst of expirations wakes
// the program once.
type EventBuffer struct {
	mu     sync.Mutex
	events []notify.Event
	signal chan struct{}
}

// NewEventBuffer constructs a buffer for async event delivery.
func NewEventBuffer() *EventBuffer {
	return &EventBuffer{
		events: make([]notify.Event, 0),
		signal: make(chan struct{}, 1),
	}
}

// Push appends an event and emits a non-blocking drain signal. Safe to
// call from any goroutine, including timer callbacks.
func (b *EventBuffer) Push(ev notify.Event) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered events and clears the buffer.
func (b *EventBuffer) Drain() []notify.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]notify.Event, len(b.events))
	copy(out, b.events)
	b.events = b.events[:0]
	return out
}

// WaitForSignal blocks until there are events ready to drain.
func (b *EventBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return notifyEventsMsg{}
	}
}
