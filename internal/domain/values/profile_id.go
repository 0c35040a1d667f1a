// Package values contains immutable value objects for the overlay domain.
// Value objects are validated on construction and compared by value.
package values

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ProfileID uniquely identifies a profile in the entity registry.
// Profiles are keyed by GUID; the braced form is canonical.
type ProfileID struct {
	value uuid.UUID
}

// NewProfileID parses a profile GUID. Bare, braced ({...}) and urn:uuid
// forms are accepted. The nil GUID is rejected.
func NewProfileID(s string) (ProfileID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProfileID{}, fmt.Errorf("profile ID cannot be empty")
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return ProfileID{}, fmt.Errorf("invalid profile ID %q: %w", s, err)
	}
	if id == uuid.Nil {
		return ProfileID{}, fmt.Errorf("profile ID cannot be the nil GUID")
	}

	return ProfileID{value: id}, nil
}

// ParseProfileTarget parses the GUID a fragment entry refers to. Unlike
// NewProfileID it accepts the nil GUID and returns the zero ProfileID, which
// no registry profile can carry, so the entry never resolves.
func ParseProfileTarget(s string) (ProfileID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ProfileID{}, fmt.Errorf("profile ID cannot be empty")
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return ProfileID{}, fmt.Errorf("invalid profile ID %q: %w", s, err)
	}
	return ProfileID{value: id}, nil
}

// MustNewProfileID creates a ProfileID or panics (for tests/constants)
func MustNewProfileID(s string) ProfileID {
	id, err := NewProfileID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ProfileIDFromUUID wraps an existing UUID.
func ProfileIDFromUUID(id uuid.UUID) ProfileID {
	return ProfileID{value: id}
}

// String returns the braced lowercase form, e.g. {61c54bbd-c2c6-5271-96e7-009a87ff44bf}.
func (p ProfileID) String() string {
	if p.IsEmpty() {
		return ""
	}
	return "{" + p.value.String() + "}"
}

// UUID returns the underlying UUID.
func (p ProfileID) UUID() uuid.UUID {
	return p.value
}

// IsEmpty returns true if this is the zero value
func (p ProfileID) IsEmpty() bool {
	return p.value == uuid.Nil
}

// Equals checks if two ProfileIDs are equal
func (p ProfileID) Equals(other ProfileID) bool {
	return p.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (p ProfileID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *ProfileID) UnmarshalText(data []byte) error {
	id, err := NewProfileID(string(data))
	if err != nil {
		return err
	}
	*p = id
	return nil
}
