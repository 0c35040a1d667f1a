// Package watch provides file system watching with debouncing for the
// settings file and fragment directories.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the settings file and fragment directories and sends a
// notification once changes settle.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	settingsPath string
	fragmentDirs []string
	debounce     time.Duration
	logger       *slog.Logger

	onChange chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	SettingsPath string
	FragmentDirs []string
	DebounceDur  time.Duration
	Logger       *slog.Logger
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(settingsPath string, fragmentDirs []string) Config {
	return Config{
		SettingsPath: settingsPath,
		FragmentDirs: fragmentDirs,
		DebounceDur:  300 * time.Millisecond,
	}
}

// New creates a new settings watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dirs := make([]string, 0, len(cfg.FragmentDirs))
	for _, d := range cfg.FragmentDirs {
		dirs = append(dirs, filepath.Clean(d))
	}

	return &Watcher{
		fsWatcher:    fsw,
		settingsPath: filepath.Clean(cfg.SettingsPath),
		fragmentDirs: dirs,
		debounce:     cfg.DebounceDur,
		logger:       logger,
		onChange:     make(chan struct{}, 1),
		done:         make(chan struct{}),
	}, nil
}

// Start begins watching. The returned channel receives a signal after each
// burst of relevant changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	// Watch the directory: editors and atomic writers replace the file.
	// The settings store creates it on first write; create it now so that
	// write is observed.
	dir := filepath.Dir(w.settingsPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	for _, d := range w.fragmentDirs {
		if err := w.addTree(d); err != nil {
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher, waits for its goroutine and releases
// resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return err
}

// addTree watches dir and every non-hidden subdirectory. A missing
// directory is skipped.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		w.logger.Debug("fragment directory not found, not watching", "dir", dir)
		return nil
	}
	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			w.followNewDirectory(event)

			if !w.isRelevantEvent(event) {
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if a notification is already queued
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// followNewDirectory starts watching directories created inside a fragment
// directory, so that a newly installed extension is picked up.
func (w *Watcher) followNewDirectory(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || w.fragmentDirFor(event.Name) == "" {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(event.Name); err != nil {
		w.logger.Warn("failed to watch new fragment directory", "dir", event.Name, "error", err)
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	name := filepath.Clean(event.Name)
	if name == w.settingsPath {
		return true
	}

	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		// hidden and temporary files
		return false
	}
	if w.fragmentDirFor(name) == "" {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// fragmentDirFor returns the configured fragment directory containing path.
func (w *Watcher) fragmentDirFor(path string) string {
	for _, d := range w.fragmentDirs {
		if strings.HasPrefix(path, d+string(filepath.Separator)) {
			return d
		}
	}
	return ""
}
