package styles

// Notification level icons.
var (
	IconNotifySuccess = "✓"
	IconNotifyError   = "✗"
	IconNotifyWarning = "▲"
	IconNotifyInfo    = "●"
)

// IconPulse marks the application header.
var IconPulse = "\U000F0E8D" // 󰺍
