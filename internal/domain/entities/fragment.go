package entities

import (
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// Payload is the body of a fragment entry. The domain never inspects it;
// it is forwarded unchanged to whoever renders a contribution. Callers must
// treat payloads as read-only once a fragment is in a catalog.
type Payload map[string]any

// ProfileEntry is a fragment entry that targets a profile, either to modify
// an existing one or to describe a profile the fragment added.
type ProfileEntry struct {
	Target  values.ProfileID
	Payload Payload
}

// SchemeEntry is a fragment entry that contributes a color scheme.
type SchemeEntry struct {
	Target  values.SchemeName
	Payload Payload
}

// Fragment is an externally authored bundle of configuration contributions
// attributed to a single source.
type Fragment struct {
	Source values.SourceID
	// Path is where the fragment was read from, if it came from a file.
	Path string

	ModifiedProfiles []ProfileEntry
	NewProfiles      []ProfileEntry
	ColorSchemes     []SchemeEntry
}

// EntryCount returns the number of raw entries across all three kinds.
func (f *Fragment) EntryCount() int {
	return len(f.ModifiedProfiles) + len(f.NewProfiles) + len(f.ColorSchemes)
}

// clone copies the entry slices so that a catalog does not alias the
// caller's backing arrays. Payload maps are shared.
func (f Fragment) clone() Fragment {
	out := f
	out.ModifiedProfiles = append([]ProfileEntry(nil), f.ModifiedProfiles...)
	out.NewProfiles = append([]ProfileEntry(nil), f.NewProfiles...)
	out.ColorSchemes = append([]SchemeEntry(nil), f.ColorSchemes...)
	return out
}
