package tui

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pulse/internal/core/config"
	"github.com/colonyops/pulse/internal/core/notify"
	"github.com/colonyops/pulse/pkg/tuitest"
)

func newTestModel(t *testing.T) (Model, *notify.Center) {
	t.Helper()

	center := notify.NewCenter(notify.Options{
		DefaultTTL: time.Hour,
		Logger:     zerolog.Nop(),
	})

	m := NewModel(Options{
		Config: config.Default(),
		Center: center,
		Logger: zerolog.Nop(),
	})
	m.width = 80
	m.height = 24
	return m, center
}

func TestModel_QuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(tuitest.KeyText("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, updated.(Model).quitting)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tuitest.KeyCtrl('c'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_DismissToastRemovesNewest(t *testing.T) {
	m, center := newTestModel(t)

	first := center.Infof("first")
	second := center.Infof("second")

	m.Update(tuitest.KeyText("x"))

	state, ok := center.State(second)
	require.True(t, ok)
	assert.Equal(t, notify.StateRemoving, state, "newest toast enters removal")

	state, ok = center.State(first)
	require.True(t, ok)
	assert.Equal(t, notify.StateActive, state, "older toast untouched")
}

func TestModel_ClearToasts(t *testing.T) {
	m, center := newTestModel(t)

	center.Infof("one")
	center.Infof("two")

	m.Update(tuitest.KeyCtrl('x'))
	assert.Empty(t, center.Active())
}

func TestModel_ResizeInvalidatesHelpCache(t *testing.T) {
	m, _ := newTestModel(t)
	m.helpCache = "stale"

	updated, _ := m.Update(tuitest.WindowSize(100, 30))
	mm := updated.(Model)
	assert.Equal(t, 100, mm.width)
	assert.Equal(t, 30, mm.height)
	assert.Empty(t, mm.helpCache, "help is re-rendered at the new width")
}

func TestModel_HelpOverlayToggle(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(tuitest.KeyText("?"))
	mm := updated.(Model)
	assert.Equal(t, stateHelp, mm.state)

	updated, _ = mm.Update(tuitest.KeyEsc())
	assert.Equal(t, stateNormal, updated.(Model).state)
}

func TestModel_OverlaySwallowsKeys(t *testing.T) {
	m, center := newTestModel(t)
	m.state = stateHelp

	center.Infof("toast")
	m.Update(tuitest.KeyText("x"))

	// The dismiss binding must not fire while an overlay is open.
	assert.Len(t, center.Active(), 1)
}

func TestModel_StoreKeysLoaded(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(storeKeysLoadedMsg{keys: []string{"a", "b"}})
	assert.Equal(t, "a", updated.(Model).store.SelectedKey())
	assert.True(t, updated.(Model).loaded)
}

func TestModel_StoreKeysLoadError(t *testing.T) {
	m, center := newTestModel(t)

	m.Update(storeKeysLoadedMsg{err: assert.AnError})

	active := center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.KindError, active[0].Kind)
}

func TestModel_FilterMode(t *testing.T) {
	m, _ := newTestModel(t)
	m.store.SetKeys([]string{"alpha", "beta"})

	updated, _ := m.Update(tuitest.KeyText("/"))
	mm := updated.(Model)
	require.True(t, mm.store.IsFiltering())

	updated, _ = mm.Update(tuitest.KeyText("b"))
	mm = updated.(Model)
	assert.Equal(t, "beta", mm.store.SelectedKey())

	updated, _ = mm.Update(tuitest.KeyEnter())
	assert.False(t, updated.(Model).store.IsFiltering())
}

func TestModel_FilterDebounceDropsStaleTicks(t *testing.T) {
	m, _ := newTestModel(t)
	m.store.SetKeys([]string{"alpha", "beta"})

	updated, _ := m.Update(tuitest.KeyText("/"))
	mm := updated.(Model)

	updated, _ = mm.Update(tuitest.KeyText("b"))
	mm = updated.(Model)
	updated, _ = mm.Update(tuitest.KeyText("e"))
	mm = updated.(Model)
	require.Equal(t, 2, mm.filterSeq)

	// The tick from the first keystroke is superseded.
	_, cmd := mm.Update(filterSettledMsg{seq: 1})
	assert.Nil(t, cmd)

	_, cmd = mm.Update(filterSettledMsg{seq: 2})
	assert.Nil(t, cmd) // no store configured, nothing to fetch
}

func TestModel_HistoryOverlay(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(historyLoadedMsg{items: []notify.Notification{
		{ID: "n1", Kind: notify.KindSuccess, Message: "done", CreatedAt: time.Now()},
	}})
	mm := updated.(Model)
	assert.Equal(t, stateHistory, mm.state)

	view := mm.renderHistory()
	assert.Contains(t, view, "done")
}

func TestModel_RenderedFrame(t *testing.T) {
	m, center := newTestModel(t)

	center.Infof("hello toast")

	header := m.renderHeader(m.width)
	assert.Contains(t, header, "pulse")

	frame := m.toasts.Overlay(header+"\n"+m.renderContent(), m.width, m.height)
	assert.Contains(t, frame, "hello toast")
}
