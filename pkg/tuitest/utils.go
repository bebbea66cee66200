// Package tuitest holds helpers shared by the TUI test suites.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI drops escape sequences and trailing whitespace so rendered
// frames can be asserted on as plain text.
func StripANSI(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// KeyText builds a key press carrying printable text, the form the
// terminal reports for plain character input.
func KeyText(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: -1, Text: s}
}

// KeyCtrl builds a ctrl-modified key press.
func KeyCtrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: r, Mod: tea.ModCtrl})
}

// KeyEnter builds an enter key press.
func KeyEnter() tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
}

// KeyEsc builds an escape key press.
func KeyEsc() tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyEscape})
}

// WindowSize builds a resize message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
