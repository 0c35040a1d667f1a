package values

import "fmt"

// SchemeName identifies a color scheme. Names are compared exactly;
// "Campbell" and "campbell" are different schemes.
type SchemeName struct {
	value string
}

// NewSchemeName creates a new SchemeName. Surrounding whitespace is
// significant in scheme names and is preserved.
func NewSchemeName(s string) (SchemeName, error) {
	if s == "" {
		return SchemeName{}, fmt.Errorf("color scheme name cannot be empty")
	}
	return SchemeName{value: s}, nil
}

// MustNewSchemeName creates a SchemeName or panics (for tests/constants)
func MustNewSchemeName(s string) SchemeName {
	n, err := NewSchemeName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the string representation
func (n SchemeName) String() string {
	return n.value
}

// IsEmpty returns true if this is the zero value
func (n SchemeName) IsEmpty() bool {
	return n.value == ""
}

// Equals checks if two SchemeNames are equal
func (n SchemeName) Equals(other SchemeName) bool {
	return n.value == other.value
}

// MarshalText implements encoding.TextMarshaler
func (n SchemeName) MarshalText() ([]byte, error) {
	return []byte(n.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (n *SchemeName) UnmarshalText(data []byte) error {
	name, err := NewSchemeName(string(data))
	if err != nil {
		return err
	}
	*n = name
	return nil
}
