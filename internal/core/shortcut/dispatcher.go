package shortcut

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/pulse/pkg/kv"
)

// Handler is invoked with the event that matched its binding.
type Handler func(Event)

// Binding maps a normalized combination to a handler.
type Binding struct {
	Combination string
	Handler     Handler
	Description string
}

// Shortcut is the listing form of a binding for help surfaces.
type Shortcut struct {
	Key         string
	Description string
}

// Dispatcher holds the binding table and routes events to handlers by
// exact modifier+key match. It is safe for concurrent use.
type Dispatcher struct {
	bindings *kv.Store[string, Binding]
	log      zerolog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		bindings: kv.New[string, Binding](),
		log:      log,
	}
}

// Register binds a handler to a combination. The combination is
// normalized first, so "Shift+Ctrl+A" and "ctrl+shift+a" address the
// same entry. Registering an existing combination replaces the previous
// binding; it does not stack.
func (d *Dispatcher) Register(combination string, handler Handler, description string) {
	norm := Normalize(combination)
	if norm == "" || handler == nil {
		d.log.Warn().Str("combination", combination).Msg("ignoring empty shortcut registration")
		return
	}

	d.bindings.Set(norm, Binding{
		Combination: norm,
		Handler:     handler,
		Description: description,
	})
}

// Unregister removes the binding at the normalized combination. Absent
// combinations are a no-op.
func (d *Dispatcher) Unregister(combination string) {
	d.bindings.Delete(Normalize(combination))
}

// Dispatch looks up the event's combination and invokes the bound
// handler. It returns true when a binding matched, in which case the
// host should suppress the event's default behavior; unmatched
// combinations pass through unaffected.
func (d *Dispatcher) Dispatch(ev Event) bool {
	b, ok := d.bindings.Get(ev.Combination())
	if !ok {
		return false
	}
	b.Handler(ev)
	return true
}

// Shortcuts returns the current bindings in registration order for
// help-surface rendering.
func (d *Dispatcher) Shortcuts() []Shortcut {
	out := make([]Shortcut, 0, d.bindings.Len())
	for _, b := range d.bindings.Values() {
		out = append(out, Shortcut{Key: b.Combination, Description: b.Description})
	}
	return out
}
