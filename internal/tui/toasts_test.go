package tui

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pulse/internal/core/notify"
	"github.com/colonyops/pulse/pkg/tuitest"
)

func newTestCenter(t *testing.T) *notify.Center {
	t.Helper()
	return notify.NewCenter(notify.Options{
		DefaultTTL: time.Hour, // keep toasts alive for the test duration
		Logger:     zerolog.Nop(),
	})
}

func TestToastView_VisibleCapsOldest(t *testing.T) {
	center := newTestCenter(t)
	v := NewToastView(center, 3)

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, center.Infof("toast %d", i))
	}

	visible := v.Visible()
	require.Len(t, visible, 3)
	assert.Equal(t, ids[2], visible[0].ID, "oldest surviving toast first")
	assert.Equal(t, ids[4], visible[2].ID, "newest toast last")
	assert.Equal(t, ids[4], v.NewestID())

	// Hidden toasts are not dismissed, only clipped from the stack.
	_, ok := center.State(ids[0])
	assert.True(t, ok)
}

func TestToastView_ViewRendersKinds(t *testing.T) {
	center := newTestCenter(t)
	v := NewToastView(center, 0)

	center.Successf("saved")
	center.Errorf("boom")

	out := tuitest.StripANSI(v.View())
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "boom")
}

func TestToastView_ViewEmpty(t *testing.T) {
	center := newTestCenter(t)
	v := NewToastView(center, 0)
	assert.Empty(t, v.View())
	assert.Empty(t, v.NewestID())
}

func TestToastView_OverlayPassthroughWhenEmpty(t *testing.T) {
	center := newTestCenter(t)
	v := NewToastView(center, 0)

	bg := "background content"
	assert.Equal(t, bg, v.Overlay(bg, 80, 24))
}

func TestToastView_RendersActionLabels(t *testing.T) {
	center := newTestCenter(t)
	v := NewToastView(center, 0)

	center.Show("deploy finished", notify.KindSuccess, 0, notify.Action{Label: "View", Command: "open-logs"})

	out := v.View()
	assert.Contains(t, out, "deploy finished")
	assert.Contains(t, out, "[View]")
}

func TestToastView_DefaultCap(t *testing.T) {
	center := newTestCenter(t)
	v := NewToastView(center, 0)

	for i := 0; i < defaultMaxToasts+2; i++ {
		center.Infof("n%d", i)
	}
	assert.Len(t, v.Visible(), defaultMaxToasts)
}
