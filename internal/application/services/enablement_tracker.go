// Package services contains application use cases.
package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reglet-dev/overlay/internal/application/dto"
	apperrors "github.com/reglet-dev/overlay/internal/application/errors"
	"github.com/reglet-dev/overlay/internal/application/ports"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// EnablementTracker answers and updates whether an extension source is
// enabled, on top of the settings model's disabled-sources list.
//
// State per source is Enabled or Disabled. A source is Disabled iff it is a
// member of the disabled list; an undefined list means every source is
// Enabled. Transitions only happen through SetEnabled and are reversible.
//
// The tracker serializes all access to the list, so toggles are observed in
// call order even when issued from several goroutines.
type EnablementTracker struct {
	store  ports.DisabledSourceStore
	logger *slog.Logger
	mu     sync.Mutex
}

// NewEnablementTracker creates a tracker over store.
func NewEnablementTracker(store ports.DisabledSourceStore, logger *slog.Logger) *EnablementTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnablementTracker{
		store:  store,
		logger: logger,
	}
}

// IsEnabled returns false iff source is in the disabled list.
func (t *EnablementTracker) IsEnabled(source values.SourceID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.isEnabledLocked(source)
}

func (t *EnablementTracker) isEnabledLocked(source values.SourceID) bool {
	disabled, defined := t.store.DisabledSources()
	if !defined {
		// disabled list never defined: everything is enabled
		return true
	}
	return !disabled.Contains(source)
}

// SetEnabled moves source to the requested state and writes the new
// disabled list back to the settings model. Requesting the current state
// is a no-op and performs no write.
//
// A rejected write returns *apperrors.WriteBackError and the state is
// unchanged.
func (t *EnablementTracker) SetEnabled(ctx context.Context, source values.SourceID, enabled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	disabled, defined := t.store.DisabledSources()
	idx := -1
	if defined {
		idx = disabled.IndexOf(source)
	}

	currentlyEnabled := idx < 0
	if currentlyEnabled == enabled {
		return nil
	}

	var next values.SourceSet
	switch {
	case !defined:
		// Only reachable when disabling. Create the list with exactly this
		// source; nothing else becomes disabled.
		next = values.NewSourceSet(source)
	case enabled:
		// May leave an empty list behind. It stays defined.
		next = disabled.WithoutAt(idx)
	default:
		next = disabled.With(source)
	}

	if err := t.store.SetDisabledSources(ctx, next); err != nil {
		return apperrors.NewWriteBackError(source.String(), enabled, err)
	}

	t.logger.Info("extension state changed",
		"source", source.String(),
		"enabled", enabled,
		"disabled_sources", next.Len(),
	)
	return nil
}

// States returns the enabled state of each source, in the given order.
func (t *EnablementTracker) States(sources []values.SourceID) []dto.ExtensionState {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]dto.ExtensionState, 0, len(sources))
	for _, src := range sources {
		out = append(out, dto.ExtensionState{
			Source:  src.String(),
			Enabled: t.isEnabledLocked(src),
		})
	}
	return out
}
