package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	General       GeneralConfig       `toml:"general"`
	Notifications NotificationsConfig `toml:"notifications"`
	Display       DisplayConfig       `toml:"display"`
	Session       SessionConfig       `toml:"session"`
}

// GeneralConfig holds general settings
type GeneralConfig struct {
	// DataDir is where the todo, history and log files live
	DataDir string `toml:"data_dir"`
	// WatchDebounceMs batches rapid filesystem events from one external write
	WatchDebounceMs int `toml:"watch_debounce_ms"`
	// SelfWriteSuppressMs is how long after our own save watcher events
	// are ignored, so a writer does not react to its own write
	SelfWriteSuppressMs int `toml:"self_write_suppress_ms"`
}

// NotificationsConfig holds notification settings
type NotificationsConfig struct {
	Sound   bool `toml:"sound"`
	Desktop bool `toml:"desktop"`
}

// DisplayConfig holds UI settings
type DisplayConfig struct {
	// ThemeIndex selects a progress bar theme (0-based)
	ThemeIndex int `toml:"theme_index"`
}

// SessionConfig holds todo-countdown settings
type SessionConfig struct {
	// FlushIntervalSec is the cadence for persisting in-flight actual
	// time while a session runs
	FlushIntervalSec int `toml:"flush_interval_sec"`
	// ConfirmWindowSec is how long a destructive bulk command waits
	// for its repeat-to-confirm
	ConfirmWindowSec int `toml:"confirm_window_sec"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			DataDir:             filepath.Join(home, ".tickdone"),
			WatchDebounceMs:     100,
			SelfWriteSuppressMs: 200,
		},
		Notifications: NotificationsConfig{
			Sound:   true,
			Desktop: true,
		},
		Display: DisplayConfig{
			ThemeIndex: 0,
		},
		Session: SessionConfig{
			FlushIntervalSec: 30,
			ConfirmWindowSec: 5,
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.General.DataDir = ExpandPath(cfg.General.DataDir)
	return cfg, nil
}

// Save writes the configuration back to a TOML file, creating parent
// directories as needed. The whole file is replaced on every save.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tickdone", "config.toml")
}
