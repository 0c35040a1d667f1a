package settings

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// Model is the settings model backed by a settings file and fragment
// directories. It is safe for concurrent use.
type Model struct {
	loader *Loader
	logger *slog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// Open loads the settings and returns a ready model.
func Open(ctx context.Context, loader *Loader, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{loader: loader, logger: logger}
	if err := m.Reload(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads the settings file and fragment directories. On error the
// previous snapshot stays in effect.
func (m *Model) Reload(ctx context.Context) error {
	snap, err := m.loader.Load(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
	return nil
}

func (m *Model) current() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// FindProfile looks a profile up by ID.
func (m *Model) FindProfile(id values.ProfileID) (entities.Profile, bool) {
	return m.current().registry.FindProfile(id)
}

// ColorSchemes returns the color schemes in settings order.
func (m *Model) ColorSchemes() []entities.ColorScheme {
	return m.current().registry.ColorSchemes()
}

// Registry returns the current entity registry.
func (m *Model) Registry() *entities.Registry {
	return m.current().registry
}

// Fragments returns the current fragment catalog.
func (m *Model) Fragments() *entities.FragmentCatalog {
	return m.current().catalog
}

// Revision returns the digest of the loaded content.
func (m *Model) Revision() string {
	return m.current().revision
}

// Path returns the settings file path.
func (m *Model) Path() string {
	return m.loader.Store().Path()
}

// FragmentDirs returns the configured fragment directories.
func (m *Model) FragmentDirs() []string {
	return m.loader.FragmentDirs()
}

// DisabledSources returns the disabled list and whether it is defined.
func (m *Model) DisabledSources() (values.SourceSet, bool) {
	snap := m.current()
	return snap.disabled, snap.disabledDefined
}

// SetDisabledSources writes set to the settings file and, once the file has
// been replaced, makes it the current list. A failed write leaves both the
// file and the in-memory list untouched.
func (m *Model) SetDisabledSources(ctx context.Context, set values.SourceSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	raw := withDisabledSources(m.snap.raw, set)
	data, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := m.loader.Store().Write(data); err != nil {
		return err
	}

	next := *m.snap
	next.raw = raw
	next.disabled = set
	next.disabledDefined = true
	next.settingsData = data
	next.revision = computeRevision(data, next.fragmentsDigest)
	m.snap = &next

	m.logger.Debug("disabled sources saved", "path", m.loader.Store().Path(), "count", set.Len())
	return nil
}
