// Package entities contains domain entities for the overlay domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// Profile is a base profile held by the settings model.
//
// Entity Identity: ID uniquely identifies the profile in a registry.
type Profile struct {
	ID     values.ProfileID
	Name   string
	Source string // generator that created the profile, empty for user profiles
	Hidden bool
}

// ColorScheme is a base color scheme held by the settings model.
//
// Entity Identity: Name. Names are expected to be unique within a registry,
// but lookups tolerate duplicates (first definition wins).
type ColorScheme struct {
	Name       values.SchemeName
	Foreground string
	Background string
}
