// Package dto contains data transfer objects for application layer use cases.
package dto

// ResolveRequest encapsulates the inputs for a resolution pass.
type ResolveRequest struct {
	Filters FilterOptions

	// EnabledOnly drops contributions from disabled sources.
	EnabledOnly bool
}

// FilterOptions defines filters for contribution selection.
type FilterOptions struct {
	FilterExpression string
	IncludeSources   []string
	ExcludeSources   []string
	Kinds            []string
}

// IsEmpty reports whether no filter is set.
func (f FilterOptions) IsEmpty() bool {
	return f.FilterExpression == "" &&
		len(f.IncludeSources) == 0 &&
		len(f.ExcludeSources) == 0 &&
		len(f.Kinds) == 0
}

// SetEnabledRequest toggles one or more sources to the same state.
type SetEnabledRequest struct {
	Sources []string
	Enabled bool
}
