// Package config holds the resolved runtime configuration.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultFormat is the output format when none is configured.
	DefaultFormat = "table"
	// DefaultWatchDebounce is how long the watcher waits for changes to settle.
	DefaultWatchDebounce = 300 * time.Millisecond
	// DefaultSettingsFile is the settings file name under the user's config dir.
	DefaultSettingsFile = "settings.yaml"
)

// RuntimeConfig aggregates all runtime configuration.
// This is a value object that flows through the system.
type RuntimeConfig struct {
	// Settings document and fragment locations
	SettingsPath string
	FragmentDirs []string

	// Output
	Format string
	Color  bool

	// CacheTTL bounds reuse of a resolved view; zero means until the
	// settings content changes.
	CacheTTL time.Duration

	WatchDebounce time.Duration

	// DryRun keeps enable/disable changes in memory.
	DryRun bool
}

// ApplyDefaults applies defaults for zero values.
func (r *RuntimeConfig) ApplyDefaults() {
	if r.SettingsPath == "" {
		r.SettingsPath = DefaultSettingsPath()
	}
	if len(r.FragmentDirs) == 0 {
		r.FragmentDirs = []string{filepath.Join(filepath.Dir(r.SettingsPath), "fragments")}
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.WatchDebounce <= 0 {
		r.WatchDebounce = DefaultWatchDebounce
	}
	if r.CacheTTL < 0 {
		r.CacheTTL = 0
	}
}

// DefaultSettingsPath returns ~/.config/overlay/settings.yaml, or a path in
// the working directory when no config dir is available.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultSettingsFile
	}
	return filepath.Join(dir, "overlay", DefaultSettingsFile)
}
