package entities

import (
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// Registry is a read-only view of the base entities owned by the settings
// model: profiles by ID and color schemes by name.
//
// Invariants Enforced:
//   - Profile lookup is by ID and O(1); the first profile defined with a
//     given ID wins
//   - Color scheme lookup is by exact name; the first scheme with a given
//     name wins
//   - Contents never change after construction
type Registry struct {
	profiles []Profile
	byID     map[values.ProfileID]int
	schemes  []ColorScheme
}

// NewRegistry builds a registry. The input slices are copied.
func NewRegistry(profiles []Profile, schemes []ColorScheme) *Registry {
	r := &Registry{
		profiles: append([]Profile(nil), profiles...),
		byID:     make(map[values.ProfileID]int, len(profiles)),
		schemes:  append([]ColorScheme(nil), schemes...),
	}
	for i, p := range r.profiles {
		if _, exists := r.byID[p.ID]; exists {
			continue
		}
		r.byID[p.ID] = i
	}
	return r
}

// FindProfile returns the profile with the given ID.
func (r *Registry) FindProfile(id values.ProfileID) (Profile, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[i], true
}

// FindColorScheme returns the first scheme whose name equals name.
func (r *Registry) FindColorScheme(name values.SchemeName) (ColorScheme, bool) {
	for _, s := range r.schemes {
		if s.Name.Equals(name) {
			return s, true
		}
	}
	return ColorScheme{}, false
}

// Profiles returns a copy of all profiles in definition order.
func (r *Registry) Profiles() []Profile {
	return append([]Profile(nil), r.profiles...)
}

// ColorSchemes returns a copy of all schemes in definition order.
func (r *Registry) ColorSchemes() []ColorScheme {
	return append([]ColorScheme(nil), r.schemes...)
}
