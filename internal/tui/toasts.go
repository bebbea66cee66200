package tui

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/pulse/internal/core/notify"
	"github.com/colonyops/pulse/internal/core/styles"
)

const (
	defaultMaxToasts = 5
	toastWidth       = 50
)

// ToastView renders the center's active notifications as a toast stack
// and composites them as an overlay. Lifecycle (TTL countdown, grace
// delays) lives in the notification center; the view is a pure
// projection of Active().
type ToastView struct {
	center    *notify.Center
	maxToasts int
}

// NewToastView creates a toast view over the given center. A max of 0
// falls back to the default cap.
func NewToastView(center *notify.Center, maxToasts int) *ToastView {
	if maxToasts <= 0 {
		maxToasts = defaultMaxToasts
	}
	return &ToastView{center: center, maxToasts: maxToasts}
}

// Visible returns the active notifications that fit the stack, newest
// last. When the center holds more than the cap, the oldest are hidden
// rather than dismissed.
func (v *ToastView) Visible() []notify.Notification {
	active := v.center.Active()
	if len(active) > v.maxToasts {
		active = active[len(active)-v.maxToasts:]
	}
	return active
}

// NewestID returns the id of the newest visible toast, or empty when
// the stack is clear.
func (v *ToastView) NewestID() string {
	visible := v.Visible()
	if len(visible) == 0 {
		return ""
	}
	return visible[len(visible)-1].ID
}

// View renders the toast stack with the oldest at the top.
func (v *ToastView) View() string {
	visible := v.Visible()
	if len(visible) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(visible))
	for _, n := range visible {
		rendered = append(rendered, renderToast(n))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(n notify.Notification) string {
	var icon string
	var style lipgloss.Style

	switch n.Kind {
	case notify.KindSuccess:
		icon = styles.IconNotifySuccess
		style = styles.ToastSuccessStyle
	case notify.KindError:
		icon = styles.IconNotifyError
		style = styles.ToastErrorStyle
	case notify.KindWarning:
		icon = styles.IconNotifyWarning
		style = styles.ToastWarningStyle
	default:
		icon = styles.IconNotifyInfo
		style = styles.ToastInfoStyle
	}

	content := icon + " " + n.Message
	if len(n.Actions) > 0 {
		labels := make([]string, 0, len(n.Actions))
		for _, a := range n.Actions {
			labels = append(labels, "["+a.Label+"]")
		}
		content += "\n" + styles.TextMutedStyle.Render(strings.Join(labels, " "))
	}
	return style.Width(toastWidth).Render(content)
}

// Overlay composites the toast stack over background in the lower-right corner.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	rightX := max(width-toastW-1, 0)
	bottomY := max(height-toastH, 0)

	toastLayer.X(rightX).Y(bottomY).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
