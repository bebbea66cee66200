package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/pulse/internal/core/kv"
)

const storePollInterval = 2 * time.Second

// storeKeysLoadedMsg is sent when the store key list is fetched.
type storeKeysLoadedMsg struct {
	keys []string
	err  error
}

// storeEntryLoadedMsg is sent when an entry is fetched for preview.
type storeEntryLoadedMsg struct {
	entry kv.Entry
	err   error
}

type storePollTickMsg time.Time

// filterSettledMsg fires after typing in the filter pauses. The seq
// lets the model drop ticks superseded by later keystrokes.
type filterSettledMsg struct {
	seq int
}

func scheduleStorePoll() tea.Cmd {
	return tea.Tick(storePollInterval, func(t time.Time) tea.Msg {
		return storePollTickMsg(t)
	})
}

func scheduleFilterSettle(delay time.Duration, seq int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return filterSettledMsg{seq: seq}
	})
}

// loadStoreKeys returns a command that fetches all live store keys.
func (m Model) loadStoreKeys() tea.Cmd {
	if m.kvStore == nil {
		return nil
	}
	store := m.kvStore
	return func() tea.Msg {
		keys, err := store.ListKeys(context.Background())
		return storeKeysLoadedMsg{keys: keys, err: err}
	}
}

// loadStoreEntry returns a command that fetches a raw entry for the
// preview pane.
func (m Model) loadStoreEntry(key string) tea.Cmd {
	if m.kvStore == nil || key == "" {
		return nil
	}
	store := m.kvStore
	return func() tea.Msg {
		entry, err := store.GetRaw(context.Background(), key)
		return storeEntryLoadedMsg{entry: entry, err: err}
	}
}
