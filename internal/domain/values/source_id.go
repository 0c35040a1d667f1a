package values

import (
	"fmt"
	"strings"
)

// SourceID names the origin of an extension fragment.
// It is the key used to enable or disable a fragment's contributions.
type SourceID struct {
	value string
}

// NewSourceID creates a new SourceID. The string is kept verbatim; only
// empty or all-whitespace names are rejected.
func NewSourceID(s string) (SourceID, error) {
	if strings.TrimSpace(s) == "" {
		return SourceID{}, fmt.Errorf("source ID cannot be empty")
	}
	return SourceID{value: s}, nil
}

// MustNewSourceID creates a SourceID or panics (for tests/constants)
func MustNewSourceID(s string) SourceID {
	id, err := NewSourceID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the string representation
func (s SourceID) String() string {
	return s.value
}

// IsEmpty returns true if this is the zero value
func (s SourceID) IsEmpty() bool {
	return s.value == ""
}

// Equals checks if two SourceIDs are equal
func (s SourceID) Equals(other SourceID) bool {
	return s.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (s SourceID) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SourceID) UnmarshalText(data []byte) error {
	id, err := NewSourceID(string(data))
	if err != nil {
		return err
	}
	*s = id
	return nil
}
