// Package notify maintains the set of user-visible feedback units and
// their lifecycle timers.
package notify

import (
	"context"
	"fmt"
	"time"
)

// Kind classifies a notification for presentation.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// ParseKind converts a kind name to its typed value. Unknown names are an
// error surfaced to the caller rather than silently mapped to info.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "info":
		return KindInfo, nil
	case "success":
		return KindSuccess, nil
	case "warning":
		return KindWarning, nil
	case "error":
		return KindError, nil
	default:
		return KindInfo, fmt.Errorf("unknown notification kind %q", s)
	}
}

// State tracks where a notification is in its lifecycle.
// Transitions: Active -> Removing -> Gone. Gone is terminal.
type State int

const (
	StateActive State = iota
	StateRemoving
	StateGone
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateRemoving:
		return "removing"
	case StateGone:
		return "gone"
	default:
		return "active"
	}
}

// Action is a supplementary control attached to a notification. Command
// is an identifier resolved through the center's handler table; actions
// never carry executable references themselves.
type Action struct {
	Label   string
	Command string
}

// Notification is a single transient feedback unit.
//
// Message is display text and must be rendered verbatim by hosts, never
// interpreted as markup.
type Notification struct {
	ID        string
	Kind      Kind
	Message   string
	TTL       time.Duration // 0 means persist until dismissed
	Actions   []Action
	CreatedAt time.Time
}

// Store persists notification history to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
