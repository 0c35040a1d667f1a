package dto

import (
	"github.com/reglet-dev/overlay/internal/domain/services"
)

// ResolveResponse is the outcome of a resolution pass.
type ResolveResponse struct {
	View     *services.ResolvedView
	Revision string
	// Cached is true when the view was reused from an earlier pass over
	// identical settings content.
	Cached bool
}

// ExtensionStatus describes one extension source for listing.
type ExtensionStatus struct {
	Source           string   `json:"source" yaml:"source"`
	Enabled          bool     `json:"enabled" yaml:"enabled"`
	Fragments        int      `json:"fragments" yaml:"fragments"`
	ModifiedProfiles int      `json:"modified_profiles" yaml:"modified_profiles"`
	NewProfiles      int      `json:"new_profiles" yaml:"new_profiles"`
	ColorSchemes     int      `json:"color_schemes" yaml:"color_schemes"`
	Unresolved       int      `json:"unresolved" yaml:"unresolved"`
	Paths            []string `json:"paths,omitempty" yaml:"paths,omitempty"`
}

// ExtensionState pairs a source with its enabled flag.
type ExtensionState struct {
	Source  string
	Enabled bool
}
