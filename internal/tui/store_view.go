package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/pulse/internal/core/kv"
	"github.com/colonyops/pulse/internal/core/styles"
	"github.com/colonyops/pulse/internal/tui/jsoncolor"
)

// StoreView is a two-pane browser over the persistent store: a
// filterable key list on the left and a colorized JSON preview of the
// selected entry on the right.
type StoreView struct {
	keys   []string
	cursor int
	offset int
	width  int
	height int

	entry        *kv.Entry
	preview      []string
	previewShift int

	filtering bool
	filter    string
	matches   []int // indices into keys passing the filter
}

// NewStoreView creates an empty store browser.
func NewStoreView() *StoreView {
	return &StoreView{matches: make([]int, 0)}
}

// SetKeys replaces the key list and reapplies the filter.
func (v *StoreView) SetKeys(keys []string) {
	v.keys = keys
	v.applyFilter()
	if len(v.matches) == 0 {
		v.cursor = 0
	} else if v.cursor >= len(v.matches) {
		v.cursor = len(v.matches) - 1
	}
	v.clampOffset()
}

// SetPreview sets the entry shown in the preview pane. A nil entry
// clears the pane.
func (v *StoreView) SetPreview(entry *kv.Entry) {
	v.entry = entry
	v.previewShift = 0
	if entry == nil {
		v.preview = nil
		return
	}
	v.preview = strings.Split(jsoncolor.Colorize(entry.Value), "\n")
}

// SetSize sets the viewport dimensions.
func (v *StoreView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampOffset()
}

// SelectedKey returns the key under the cursor, or empty if the list
// is empty.
func (v *StoreView) SelectedKey() string {
	if len(v.matches) == 0 {
		return ""
	}
	return v.keys[v.matches[v.cursor]]
}

// MoveUp moves the cursor up in the key list.
func (v *StoreView) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
		v.clampOffset()
	}
}

// MoveDown moves the cursor down in the key list.
func (v *StoreView) MoveDown() {
	if v.cursor < len(v.matches)-1 {
		v.cursor++
		v.clampOffset()
	}
}

// ScrollPreviewUp scrolls the JSON preview up.
func (v *StoreView) ScrollPreviewUp() {
	if v.previewShift > 0 {
		v.previewShift--
	}
}

// ScrollPreviewDown scrolls the JSON preview down.
func (v *StoreView) ScrollPreviewDown() {
	limit := max(len(v.preview)-v.contentHeight(), 0)
	if v.previewShift < limit {
		v.previewShift++
	}
}

// StartFilter enters filter entry mode, keeping any existing filter
// text for further editing.
func (v *StoreView) StartFilter() {
	v.filtering = true
}

// IsFiltering reports whether filter entry mode is active.
func (v *StoreView) IsFiltering() bool {
	return v.filtering
}

// AppendFilter adds text to the filter and resets the cursor.
func (v *StoreView) AppendFilter(s string) {
	v.filter += s
	v.resetFilterCursor()
}

// BackspaceFilter removes the last rune from the filter.
func (v *StoreView) BackspaceFilter() {
	if v.filter == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(v.filter)
	v.filter = v.filter[:len(v.filter)-size]
	v.resetFilterCursor()
}

// ConfirmFilter leaves filter entry mode, keeping the filter applied.
func (v *StoreView) ConfirmFilter() {
	v.filtering = false
}

// CancelFilter clears the filter and leaves filter entry mode.
func (v *StoreView) CancelFilter() {
	v.filtering = false
	v.filter = ""
	v.resetFilterCursor()
}

func (v *StoreView) resetFilterCursor() {
	v.applyFilter()
	v.cursor = 0
	v.offset = 0
}

func (v *StoreView) applyFilter() {
	v.matches = v.matches[:0]
	needle := strings.ToLower(v.filter)
	for i, key := range v.keys {
		if needle == "" || strings.Contains(strings.ToLower(key), needle) {
			v.matches = append(v.matches, i)
		}
	}
}

// View renders the two-pane layout with a help bar on the bottom line.
func (v *StoreView) View() string {
	if v.width < 20 || v.height < 3 {
		return ""
	}

	listWidth := max(v.width/4, 16)
	previewWidth := max(v.width-listWidth-1, 10)
	contentHeight := max(v.height-1, 1)

	left := v.renderKeyList(listWidth, contentHeight)
	right := v.renderPreview(previewWidth, contentHeight)

	divider := styles.DividerStyle.Render("│")

	var b strings.Builder
	for i := 0; i < contentHeight; i++ {
		b.WriteString(pick(left, i))
		b.WriteString(divider)
		b.WriteString(pick(right, i))
		b.WriteByte('\n')
	}
	b.WriteString(styles.HelpBarStyle.Render("↑/↓ navigate • shift+↑/↓ scroll preview • / filter • ? help"))
	return b.String()
}

func (v *StoreView) renderKeyList(width, height int) []string {
	lines := make([]string, 0, height)
	lines = append(lines, styles.TextMutedStyle.Render(padTo("  Keys", width)))

	if v.filtering || v.filter != "" {
		filterLine := styles.TextPrimaryStyle.Render("/ ") + v.filter
		if v.filtering {
			filterLine += styles.TextMutedStyle.Render("▎")
		}
		lines = append(lines, padTo(filterLine, width))
	}

	for i := v.offset; i < len(v.matches) && len(lines) < height; i++ {
		key := v.keys[v.matches[i]]
		var line string
		if i == v.cursor {
			line = styles.TextPrimaryStyle.Render("┃ ") +
				styles.TextForegroundStyle.Render(ansi.Truncate(key, width-3, "…"))
		} else {
			line = "  " + styles.TextMutedStyle.Render(ansi.Truncate(key, width-3, "…"))
		}
		lines = append(lines, padTo(line, width))
	}

	blank := strings.Repeat(" ", width)
	for len(lines) < height {
		lines = append(lines, blank)
	}
	return lines
}

func (v *StoreView) renderPreview(width, height int) []string {
	lines := make([]string, 0, height)
	blank := strings.Repeat(" ", width)
	muted := func(s string) string { return padTo(styles.TextMutedStyle.Render(s), width) }

	if v.entry == nil {
		lines = append(lines, muted("  Preview"), muted("  No key selected"))
		for len(lines) < height {
			lines = append(lines, blank)
		}
		return lines
	}

	header := "  " + styles.TextPrimaryBoldStyle.Render(v.entry.Key) +
		styles.TextMutedStyle.Render(" · created "+v.entry.CreatedAt.Format("2006-01-02 15:04"))
	if v.entry.ExpiresAt != nil {
		header += styles.TextMutedStyle.Render(" · ") + renderExpiry(*v.entry.ExpiresAt)
	}
	lines = append(lines, padTo(ansi.Truncate(header, width, "…"), width))
	lines = append(lines, muted("  "+strings.Repeat("─", max(width-2, 1))))

	bodyHeight := max(height-len(lines), 1)
	if len(v.preview) == 0 {
		lines = append(lines, muted("  (empty)"))
	}
	for i := v.previewShift; i < len(v.preview) && i < v.previewShift+bodyHeight; i++ {
		lines = append(lines, padTo("  "+v.preview[i], width))
	}

	for len(lines) < height {
		lines = append(lines, blank)
	}
	return lines
}

func renderExpiry(at time.Time) string {
	remaining := time.Until(at)
	if remaining <= 0 {
		return styles.TextErrorStyle.Render("expired")
	}
	return styles.TextWarningStyle.Render("expires in " + compactDuration(remaining))
}

func (v *StoreView) contentHeight() int {
	return max(v.height-3, 1) // header + divider + help bar
}

func (v *StoreView) visibleRows() int {
	reserved := 2 // header + help bar
	if v.filtering || v.filter != "" {
		reserved++
	}
	return max(v.height-reserved, 1)
}

func (v *StoreView) clampOffset() {
	visible := v.visibleRows()
	if v.cursor < v.offset {
		v.offset = v.cursor
	} else if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
	if v.offset > len(v.matches)-visible {
		v.offset = len(v.matches) - visible
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// pick returns lines[i] or empty padding when out of range.
func pick(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

// padTo truncates or right-pads s to the given display width.
func padTo(s string, width int) string {
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Truncate(s, width, "…")
	}
	if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// compactDuration renders a duration as a short human string.
func compactDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}
