package tui

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/colonyops/pulse/internal/core/config"
	"github.com/colonyops/pulse/internal/core/shortcut"
)

// KeybindingResolver maps incoming key presses to configured command
// identifiers through the shortcut dispatcher.
type KeybindingResolver struct {
	dispatcher *shortcut.Dispatcher
	matched    string
}

// NewKeybindingResolver builds a resolver from the merged keybinding
// config. Combinations register in sorted order so the help listing is
// stable.
func NewKeybindingResolver(bindings map[string]config.Keybinding, log zerolog.Logger) *KeybindingResolver {
	r := &KeybindingResolver{
		dispatcher: shortcut.NewDispatcher(log),
	}

	combos := make([]string, 0, len(bindings))
	for combo := range bindings {
		combos = append(combos, combo)
	}
	sort.Strings(combos)

	for _, combo := range combos {
		kb := bindings[combo]
		command := kb.Command
		r.dispatcher.Register(combo, func(shortcut.Event) {
			r.matched = command
		}, kb.Help)
	}

	return r
}

// Resolve dispatches the key press and returns the bound command
// identifier. ok is false when no binding matched and the key should
// fall through to the focused component.
func (r *KeybindingResolver) Resolve(key string) (command string, ok bool) {
	r.matched = ""
	if !r.dispatcher.Dispatch(shortcut.Parse(key)) {
		return "", false
	}
	return r.matched, true
}

// Shortcuts lists the registered bindings for the help overlay.
func (r *KeybindingResolver) Shortcuts() []shortcut.Shortcut {
	return r.dispatcher.Shortcuts()
}
