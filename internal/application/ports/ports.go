// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"

	"github.com/reglet-dev/overlay/internal/application/dto"
	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/services"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// DisabledSourceStore holds the persisted list of disabled extension sources.
//
// The list is optional: ok == false means it has never been defined and
// every source is enabled. An empty set with ok == true is a distinct,
// valid state with the same observable effect.
type DisabledSourceStore interface {
	// DisabledSources returns the current list and whether it is defined.
	DisabledSources() (set values.SourceSet, ok bool)

	// SetDisabledSources replaces the list (defining it if absent) and
	// persists it. On error the previous list must remain in effect.
	SetDisabledSources(ctx context.Context, set values.SourceSet) error
}

// SettingsModel is the external settings model the core reads from.
// It supplies the entity registry and fragment catalog for a resolution
// pass and owns the disabled-sources list.
type SettingsModel interface {
	services.EntityLookup
	DisabledSourceStore

	// Fragments returns the fragment catalog for the current revision.
	Fragments() *entities.FragmentCatalog

	// Revision identifies the loaded content. It changes whenever the
	// registry or catalog would resolve differently.
	Revision() string

	// Reload re-reads the settings from storage.
	Reload(ctx context.Context) error
}

// TogglePrompter asks a user which extensions should be enabled.
type TogglePrompter interface {
	// IsInteractive reports whether prompting is possible.
	IsInteractive() bool

	// PromptForStates shows the current states and returns the desired ones.
	PromptForStates(ctx context.Context, current []dto.ExtensionState) ([]dto.ExtensionState, error)
}

// OutputFormatter renders resolution results and extension listings.
type OutputFormatter interface {
	FormatView(view *services.ResolvedView) error
	FormatStatuses(statuses []dto.ExtensionStatus) error
}

// FormatterOptions configures formatter creation.
type FormatterOptions struct {
	Indent bool // pretty-print JSON
	Color  bool // colorize table output
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, w io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}
