// Package services contains domain services for the overlay domain model.
package services

import (
	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// EntityLookup is the read-only slice of the settings model the resolver
// needs. Both entities.Registry and the settings model adapters satisfy it.
type EntityLookup interface {
	FindProfile(id values.ProfileID) (entities.Profile, bool)
	ColorSchemes() []entities.ColorScheme
}

// OverlayResolver reconciles fragment entries against the base entities.
// This is a DOMAIN SERVICE because the existence rules are business rules.
//
// Reconciliation Semantics:
//   - Fragments: catalog order is preserved
//   - Entries: original order is preserved within each of the three lists
//   - Profile entries: target looked up by ID
//   - Scheme entries: target looked up by name, first match wins
//   - Missing target: entry is dropped silently (no error, no record)
//   - Duplicate targets: each entry is surfaced independently
//
// Resolve is a pure function of its inputs. It holds no state and never
// mutates the registry or the catalog.
type OverlayResolver struct{}

// NewOverlayResolver creates a new overlay resolver service.
func NewOverlayResolver() *OverlayResolver {
	return &OverlayResolver{}
}

// Resolve produces the reconciled view of catalog over registry.
func (r *OverlayResolver) Resolve(registry EntityLookup, catalog *entities.FragmentCatalog) *ResolvedView {
	fragments := catalog.Fragments()
	view := &ResolvedView{
		Fragments:  fragments,
		Extensions: make([]FragmentContributions, 0, len(fragments)),
	}

	// Snapshot once per pass; the registry is immutable for its duration.
	schemes := registry.ColorSchemes()

	for _, frag := range fragments {
		view.Extensions = append(view.Extensions, FragmentContributions{
			Source:           frag.Source,
			FragmentPath:     frag.Path,
			ModifiedProfiles: r.resolveProfiles(registry, frag, frag.ModifiedProfiles),
			NewProfiles:      r.resolveProfiles(registry, frag, frag.NewProfiles),
			ColorSchemes:     r.resolveSchemes(schemes, frag),
		})
	}

	return view
}

// resolveProfiles keeps the entries whose target profile exists.
func (r *OverlayResolver) resolveProfiles(
	registry EntityLookup,
	frag entities.Fragment,
	entries []entities.ProfileEntry,
) []ProfileContribution {
	var out []ProfileContribution
	for _, entry := range entries {
		profile, ok := registry.FindProfile(entry.Target)
		if !ok {
			// The profile may have been removed by the user.
			continue
		}
		out = append(out, ProfileContribution{
			Source:       frag.Source,
			FragmentPath: frag.Path,
			Profile:      profile,
			Payload:      entry.Payload,
		})
	}
	return out
}

// resolveSchemes keeps the entries whose target scheme exists.
func (r *OverlayResolver) resolveSchemes(
	schemes []entities.ColorScheme,
	frag entities.Fragment,
) []SchemeContribution {
	var out []SchemeContribution
	for _, entry := range frag.ColorSchemes {
		scheme, ok := firstSchemeNamed(schemes, entry.Target)
		if !ok {
			continue
		}
		out = append(out, SchemeContribution{
			Source:       frag.Source,
			FragmentPath: frag.Path,
			Scheme:       scheme,
			Payload:      entry.Payload,
		})
	}
	return out
}

// firstSchemeNamed scans schemes in order and returns the first whose name
// equals name. Duplicate names are an upstream invariant violation and are
// tolerated here.
func firstSchemeNamed(schemes []entities.ColorScheme, name values.SchemeName) (entities.ColorScheme, bool) {
	for _, s := range schemes {
		if s.Name.Equals(name) {
			return s, true
		}
	}
	return entities.ColorScheme{}, false
}
