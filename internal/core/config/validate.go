package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/pulse/internal/core/styles"
)

var knownCommands = map[string]bool{
	CommandHelp:          true,
	CommandQuit:          true,
	CommandRefresh:       true,
	CommandFilter:        true,
	CommandDismissToast:  true,
	CommandClearToasts:   true,
	CommandNotifications: true,
}

// Validate checks the configuration for errors a user could introduce
// through the config file.
func (c *Config) Validate() error {
	var errs []string

	for _, o := range c.API.RetryOverrides {
		if o.Pattern == "" {
			errs = append(errs, "api.retry_overrides: pattern must not be empty")
			continue
		}
		if !doublestar.ValidatePattern(o.Pattern) {
			errs = append(errs, fmt.Sprintf("api.retry_overrides: invalid pattern %q", o.Pattern))
		}
	}

	if c.UI.Theme != "" {
		if _, ok := styles.GetPalette(c.UI.Theme); !ok {
			errs = append(errs, fmt.Sprintf("ui.theme: unknown theme %q (known: %s)", c.UI.Theme, strings.Join(styles.ThemeNames(), ", ")))
		}
	}

	for combo, kb := range c.Keybindings {
		if combo == "" {
			errs = append(errs, "keybindings: empty combination")
			continue
		}
		if kb.Command == "" {
			errs = append(errs, fmt.Sprintf("keybindings.%s: command must not be empty", combo))
			continue
		}
		if !knownCommands[kb.Command] {
			errs = append(errs, fmt.Sprintf("keybindings.%s: unknown command %q", combo, kb.Command))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
