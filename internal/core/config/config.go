// Package config handles configuration loading and validation for pulse.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/pulse/internal/core/styles"
)

// Command identifiers bindable to keyboard shortcuts in the host TUI.
const (
	CommandHelp          = "help"
	CommandQuit          = "quit"
	CommandRefresh       = "refresh"
	CommandFilter        = "filter"
	CommandDismissToast  = "dismiss-toast"
	CommandClearToasts   = "clear-toasts"
	CommandNotifications = "notifications"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"?":      {Command: CommandHelp, Help: "show shortcut help"},
	"q":      {Command: CommandQuit, Help: "quit"},
	"ctrl+r": {Command: CommandRefresh, Help: "reload stored keys"},
	"/":      {Command: CommandFilter, Help: "filter keys"},
	"x":      {Command: CommandDismissToast, Help: "dismiss newest toast"},
	"ctrl+x": {Command: CommandClearToasts, Help: "clear all toasts"},
	"ctrl+n": {Command: CommandNotifications, Help: "notification history"},
}

// Config holds the application configuration.
type Config struct {
	API           APIConfig             `yaml:"api"`
	UI            UIConfig              `yaml:"ui"`
	Notifications NotificationsConfig   `yaml:"notifications"`
	Keybindings   map[string]Keybinding `yaml:"keybindings"`
	Database      DatabaseConfig        `yaml:"database"`
	DataDir       string                `yaml:"-"` // set by caller, not from config file
}

// APIConfig configures the request orchestrator.
type APIConfig struct {
	BaseURL        string          `yaml:"base_url"`
	Timeout        Duration        `yaml:"timeout"`
	Retries        int             `yaml:"retries"`
	RetryOverrides []RetryOverride `yaml:"retry_overrides"`
}

// RetryOverride adjusts the retry budget for matching request paths.
type RetryOverride struct {
	// Pattern is a glob matched against the request path.
	Pattern    string `yaml:"pattern"`
	MaxRetries int    `yaml:"max_retries"`
}

// UIConfig configures host-page behavior.
type UIConfig struct {
	Theme         string   `yaml:"theme"`
	DebounceDelay Duration `yaml:"debounce_delay"`
}

// NotificationsConfig configures the notification center.
type NotificationsConfig struct {
	TTL       Duration `yaml:"ttl"`        // default auto-dismiss duration
	Grace     Duration `yaml:"grace"`      // removing -> gone delay
	MaxToasts int      `yaml:"max_toasts"` // visible toast cap in the TUI
	History   bool     `yaml:"history"`    // persist notifications to the database
}

// DatabaseConfig holds connection pool settings for the local database.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// Keybinding binds a normalized key combination to a command identifier.
type Keybinding struct {
	Command string `yaml:"command"`
	Help    string `yaml:"help"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config file at path, fills in defaults, and validates.
// A missing file yields the defaults.
func Load(path, dataDir string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.Timeout <= 0 {
		c.API.Timeout = Duration(30 * time.Second)
	}
	if c.API.Retries <= 0 {
		c.API.Retries = 3
	}
	if c.UI.Theme == "" {
		c.UI.Theme = styles.DefaultTheme
	}
	if c.UI.DebounceDelay <= 0 {
		c.UI.DebounceDelay = Duration(300 * time.Millisecond)
	}
	if c.Notifications.TTL <= 0 {
		c.Notifications.TTL = Duration(3 * time.Second)
	}
	if c.Notifications.Grace <= 0 {
		c.Notifications.Grace = Duration(300 * time.Millisecond)
	}
	if c.Notifications.MaxToasts <= 0 {
		c.Notifications.MaxToasts = 5
	}

	// User keybindings override the defaults per combination; unbound
	// defaults stay in place.
	merged := make(map[string]Keybinding, len(defaultKeybindings)+len(c.Keybindings))
	for combo, kb := range defaultKeybindings {
		merged[combo] = kb
	}
	for combo, kb := range c.Keybindings {
		merged[combo] = kb
	}
	c.Keybindings = merged
}
