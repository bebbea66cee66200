package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/pulse/internal/core/shortcut"
	"github.com/colonyops/pulse/internal/core/styles"
)

// renderHelp renders the shortcut listing as a markdown table through
// glamour, styled with the active theme. Falls back to plain text when
// the renderer cannot be constructed.
func renderHelp(shortcuts []shortcut.Shortcut, width int) string {
	md := helpMarkdown(shortcuts)

	wrap := min(max(width-8, 20), 72)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return styles.OverlayStyle.Render(strings.TrimRight(out, "\n"))
}

func helpMarkdown(shortcuts []shortcut.Shortcut) string {
	var b strings.Builder
	b.WriteString("# Shortcuts\n\n")
	b.WriteString("| Key | Action |\n|-----|--------|\n")
	for _, s := range shortcuts {
		fmt.Fprintf(&b, "| `%s` | %s |\n", s.Key, s.Description)
	}
	return b.String()
}
