// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// Text styles.
	TextPrimaryStyle     lipgloss.Style
	TextPrimaryBoldStyle lipgloss.Style
	TextSecondaryStyle   lipgloss.Style
	TextForegroundStyle  lipgloss.Style
	TextMutedStyle       lipgloss.Style
	TextSuccessStyle     lipgloss.Style
	TextWarningStyle     lipgloss.Style
	TextErrorStyle       lipgloss.Style

	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style

	// Toast styles.
	ToastSuccessStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastInfoStyle    lipgloss.Style

	// Overlay styles.
	OverlayStyle      lipgloss.Style
	OverlayTitleStyle lipgloss.Style
	HelpBarStyle      lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	TextForegroundStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastSuccessStyle = toastBase.BorderForeground(ColorSuccess)
	ToastErrorStyle = toastBase.BorderForeground(ColorError)
	ToastWarningStyle = toastBase.BorderForeground(ColorWarning)
	ToastInfoStyle = toastBase.BorderForeground(ColorPrimary)

	OverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	OverlayTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	HelpBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
