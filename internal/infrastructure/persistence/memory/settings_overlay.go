// Package memory provides in-memory implementations of application ports.
package memory

import (
	"context"
	"sync"

	"github.com/reglet-dev/overlay/internal/application/ports"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// Ensure interface compliance
var _ ports.SettingsModel = (*SettingsOverlay)(nil)

// SettingsOverlay reads entities and fragments from a base settings model
// but keeps the disabled-sources list in memory. Writes never reach the
// base model. Useful for dry runs and ephemeral sessions.
type SettingsOverlay struct {
	ports.SettingsModel

	mu      sync.RWMutex
	set     values.SourceSet
	defined bool
	writes  int
}

// NewSettingsOverlay starts from the base model's current list.
func NewSettingsOverlay(base ports.SettingsModel) *SettingsOverlay {
	set, defined := base.DisabledSources()
	return &SettingsOverlay{
		SettingsModel: base,
		set:           set,
		defined:       defined,
	}
}

// DisabledSources returns the in-memory list.
func (o *SettingsOverlay) DisabledSources() (values.SourceSet, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.set, o.defined
}

// SetDisabledSources replaces the in-memory list.
func (o *SettingsOverlay) SetDisabledSources(ctx context.Context, set values.SourceSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// SourceSet is copy-on-write; storing the value is enough.
	o.set = set
	o.defined = true
	o.writes++
	return nil
}

// Writes returns how many updates were absorbed.
func (o *SettingsOverlay) Writes() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.writes
}
