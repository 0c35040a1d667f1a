package entities

import (
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// FragmentCatalog is the ordered list of fragments for one resolution pass.
// Order is significant: it is the order contributions are presented in.
type FragmentCatalog struct {
	fragments []Fragment
}

// NewFragmentCatalog builds a catalog. Fragments are copied.
func NewFragmentCatalog(fragments ...Fragment) *FragmentCatalog {
	c := &FragmentCatalog{fragments: make([]Fragment, 0, len(fragments))}
	for _, f := range fragments {
		c.fragments = append(c.fragments, f.clone())
	}
	return c
}

// Fragments returns a copy of the fragments in catalog order.
func (c *FragmentCatalog) Fragments() []Fragment {
	if c == nil {
		return nil
	}
	out := make([]Fragment, 0, len(c.fragments))
	for _, f := range c.fragments {
		out = append(out, f.clone())
	}
	return out
}

// Len returns the number of fragments.
func (c *FragmentCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fragments)
}

// Sources returns the distinct fragment sources in order of first appearance.
// Several fragments may share a source (one extension shipping many files).
func (c *FragmentCatalog) Sources() []values.SourceID {
	if c == nil {
		return nil
	}
	seen := make(map[values.SourceID]bool)
	var out []values.SourceID
	for _, f := range c.fragments {
		if seen[f.Source] {
			continue
		}
		seen[f.Source] = true
		out = append(out, f.Source)
	}
	return out
}
