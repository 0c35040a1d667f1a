package services

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// ============================================================================
// Property-Based Tests for Resolver Invariants
// ============================================================================

var (
	profilePool = func() []values.ProfileID {
		ids := make([]values.ProfileID, 8)
		for i := range ids {
			ids[i] = values.ProfileIDFromUUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("profile-%d", i))))
		}
		return ids
	}()
	schemePool = []string{"Campbell", "Dracula", "Nord", "One Half Dark", "Solarized", "Tango"}
)

func drawRegistry(t *rapid.T) *entities.Registry {
	var profiles []entities.Profile
	for i, id := range profilePool {
		if rapid.Bool().Draw(t, fmt.Sprintf("hasProfile-%d", i)) {
			profiles = append(profiles, entities.Profile{ID: id, Name: fmt.Sprintf("profile-%d", i)})
		}
	}
	// Duplicates allowed on purpose: the resolver must tolerate them.
	names := rapid.SliceOfN(rapid.SampledFrom(schemePool), 0, 8).Draw(t, "schemes")
	schemes := make([]entities.ColorScheme, 0, len(names))
	for i, n := range names {
		schemes = append(schemes, entities.ColorScheme{
			Name:       values.MustNewSchemeName(n),
			Background: fmt.Sprintf("#%06d", i),
		})
	}
	return entities.NewRegistry(profiles, schemes)
}

func drawProfileEntries(t *rapid.T, label string) []entities.ProfileEntry {
	targets := rapid.SliceOfN(rapid.SampledFrom(profilePool), 0, 6).Draw(t, label)
	out := make([]entities.ProfileEntry, 0, len(targets))
	for _, id := range targets {
		out = append(out, entities.ProfileEntry{Target: id})
	}
	return out
}

func drawCatalog(t *rapid.T) *entities.FragmentCatalog {
	n := rapid.IntRange(0, 5).Draw(t, "fragments")
	fragments := make([]entities.Fragment, 0, n)
	for i := 0; i < n; i++ {
		names := rapid.SliceOfN(rapid.SampledFrom(append(schemePool, "Missing")), 0, 6).Draw(t, fmt.Sprintf("schemeEntries-%d", i))
		schemeEntries := make([]entities.SchemeEntry, 0, len(names))
		for _, name := range names {
			schemeEntries = append(schemeEntries, entities.SchemeEntry{Target: values.MustNewSchemeName(name)})
		}
		fragments = append(fragments, entities.Fragment{
			Source:           values.MustNewSourceID(fmt.Sprintf("src-%d", rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("source-%d", i)))),
			ModifiedProfiles: drawProfileEntries(t, fmt.Sprintf("modified-%d", i)),
			NewProfiles:      drawProfileEntries(t, fmt.Sprintf("new-%d", i)),
			ColorSchemes:     schemeEntries,
		})
	}
	return entities.NewFragmentCatalog(fragments...)
}

// TestProperty_NoDanglingReferences verifies every contribution targets an entity in the registry.
func TestProperty_NoDanglingReferences(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		registry := drawRegistry(t)
		catalog := drawCatalog(t)

		view := NewOverlayResolver().Resolve(registry, catalog)

		for _, c := range append(view.ModifiedProfiles(), view.NewProfiles()...) {
			if _, ok := registry.FindProfile(c.Profile.ID); !ok {
				t.Fatalf("contribution from %s references missing profile %s", c.Source, c.Profile.ID)
			}
		}
		for _, c := range view.ColorSchemes() {
			first, ok := registry.FindColorScheme(c.Scheme.Name)
			if !ok {
				t.Fatalf("contribution from %s references missing scheme %s", c.Source, c.Scheme.Name)
			}
			if first != c.Scheme {
				t.Fatalf("scheme %s resolved to %+v, want first match %+v", c.Scheme.Name, c.Scheme, first)
			}
		}
	})
}

// TestProperty_ResolvedEntriesMatchLiveTargets verifies that exactly the entries
// with a live target are kept, one-to-one, per fragment and kind.
func TestProperty_ResolvedEntriesMatchLiveTargets(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		registry := drawRegistry(t)
		catalog := drawCatalog(t)

		view := NewOverlayResolver().Resolve(registry, catalog)

		if len(view.Extensions) != catalog.Len() {
			t.Fatalf("got %d extensions, want %d", len(view.Extensions), catalog.Len())
		}
		for i, frag := range catalog.Fragments() {
			ext := view.Extensions[i]
			if !ext.Source.Equals(frag.Source) {
				t.Fatalf("extension %d source %s, want %s", i, ext.Source, frag.Source)
			}
			if got, want := len(ext.ModifiedProfiles), liveProfiles(registry, frag.ModifiedProfiles); got != want {
				t.Fatalf("fragment %d: %d modified contributions, want %d", i, got, want)
			}
			if got, want := len(ext.NewProfiles), liveProfiles(registry, frag.NewProfiles); got != want {
				t.Fatalf("fragment %d: %d new contributions, want %d", i, got, want)
			}
			if got, want := len(ext.ColorSchemes), liveSchemes(registry, frag.ColorSchemes); got != want {
				t.Fatalf("fragment %d: %d scheme contributions, want %d", i, got, want)
			}
		}
	})
}

// TestProperty_ReferentiallyTransparent verifies resolve(R, C) == resolve(R, C).
func TestProperty_ReferentiallyTransparent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		registry := drawRegistry(t)
		catalog := drawCatalog(t)
		resolver := NewOverlayResolver()

		first := resolver.Resolve(registry, catalog)
		second := resolver.Resolve(registry, catalog)

		if diff := cmp.Diff(first, second, viewComparers); diff != "" {
			t.Fatalf("Resolve() differs between calls (-first +second):\n%s", diff)
		}
	})
}

func liveProfiles(r *entities.Registry, entries []entities.ProfileEntry) int {
	n := 0
	for _, e := range entries {
		if _, ok := r.FindProfile(e.Target); ok {
			n++
		}
	}
	return n
}

func liveSchemes(r *entities.Registry, entries []entities.SchemeEntry) int {
	n := 0
	for _, e := range entries {
		if _, ok := r.FindColorScheme(e.Target); ok {
			n++
		}
	}
	return n
}
