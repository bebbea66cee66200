// Package shortcut routes key-press events to registered handlers by
// normalized modifier+key combination.
package shortcut

import (
	"sort"
	"strings"
)

// Event is a single key press as reported by the host. Key is the key
// name ("k", "enter", "/"); the modifier flags reflect which modifiers
// were held when the key went down.
type Event struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Combination builds the normalized combination string for the event:
// each held modifier plus the lower-cased key name.
func (e Event) Combination() string {
	parts := make([]string, 0, 5)
	if e.Ctrl {
		parts = append(parts, "ctrl")
	}
	if e.Alt {
		parts = append(parts, "alt")
	}
	if e.Shift {
		parts = append(parts, "shift")
	}
	if e.Meta {
		parts = append(parts, "meta")
	}
	parts = append(parts, strings.ToLower(e.Key))
	sort.Strings(parts)
	return strings.Join(parts, "+")
}

// Parse builds an Event from a combination string such as "ctrl+shift+k".
// Unrecognized tokens become the key name; the last one wins.
func Parse(combination string) Event {
	var ev Event
	for _, p := range strings.Split(combination, "+") {
		switch p := strings.ToLower(strings.TrimSpace(p)); p {
		case "ctrl":
			ev.Ctrl = true
		case "alt":
			ev.Alt = true
		case "shift":
			ev.Shift = true
		case "meta", "cmd":
			ev.Meta = true
		case "":
		default:
			ev.Key = p
		}
	}
	return ev
}

// Normalize converts a combination spec like "Shift+Ctrl+A" to its
// canonical form: lower-cased, split on "+", sorted, and rejoined, so
// any modifier ordering maps to the same entry. The "cmd" alias maps to
// "meta", matching Parse, so a "cmd+k" binding lands on the same entry
// that a meta key press produces.
func Normalize(combination string) string {
	raw := strings.Split(combination, "+")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "cmd" {
			p = "meta"
		}
		if p != "" {
			parts = append(parts, p)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "+")
}
