package values

// SourceSet is an ordered collection of source IDs, used for the persisted
// list of disabled extension sources. Order is insertion order and is kept
// so that write-back does not reshuffle the user's settings file.
//
// SourceSet is copy-on-write: With and WithoutAt return new sets and never
// modify the receiver.
type SourceSet struct {
	ids []SourceID
}

// NewSourceSet builds a set from the given IDs. Duplicates after the first
// occurrence are discarded.
func NewSourceSet(ids ...SourceID) SourceSet {
	set := SourceSet{ids: make([]SourceID, 0, len(ids))}
	for _, id := range ids {
		if set.Contains(id) {
			continue
		}
		set.ids = append(set.ids, id)
	}
	return set
}

// ParseSourceSet builds a set from raw strings, rejecting empty entries.
func ParseSourceSet(raw []string) (SourceSet, error) {
	ids := make([]SourceID, 0, len(raw))
	for _, s := range raw {
		id, err := NewSourceID(s)
		if err != nil {
			return SourceSet{}, err
		}
		ids = append(ids, id)
	}
	return NewSourceSet(ids...), nil
}

// Len returns the number of sources in the set.
func (s SourceSet) Len() int {
	return len(s.ids)
}

// IsEmpty reports whether the set holds no sources.
func (s SourceSet) IsEmpty() bool {
	return len(s.ids) == 0
}

// IndexOf returns the position of id, or -1 if absent.
func (s SourceSet) IndexOf(id SourceID) int {
	for i, existing := range s.ids {
		if existing.Equals(id) {
			return i
		}
	}
	return -1
}

// Contains reports whether id is a member of the set.
func (s SourceSet) Contains(id SourceID) bool {
	return s.IndexOf(id) >= 0
}

// With returns a new set with id appended. The caller is responsible for
// checking membership first; With does not deduplicate.
func (s SourceSet) With(id SourceID) SourceSet {
	ids := make([]SourceID, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	return SourceSet{ids: append(ids, id)}
}

// WithoutAt returns a new set with the element at index i removed.
// An out-of-range index returns an unchanged copy.
func (s SourceSet) WithoutAt(i int) SourceSet {
	ids := make([]SourceID, 0, len(s.ids))
	for j, id := range s.ids {
		if j == i {
			continue
		}
		ids = append(ids, id)
	}
	return SourceSet{ids: ids}
}

// IDs returns a copy of the member IDs in order.
func (s SourceSet) IDs() []SourceID {
	out := make([]SourceID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Strings returns the member IDs as strings, in order. The result is never
// nil so an empty set serializes as an empty list.
func (s SourceSet) Strings() []string {
	out := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, id.String())
	}
	return out
}
