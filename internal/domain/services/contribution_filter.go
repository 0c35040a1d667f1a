package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ContributionEnv defines the variables available during filter expression evaluation.
type ContributionEnv struct {
	Source string `expr:"source"`
	Kind   string `expr:"kind"`
	Target string `expr:"target"`
	Name   string `expr:"name"`
	Path   string `expr:"path"`
}

// CompileFilterExpression compiles an expression such as
// `source startsWith "Windows." && kind == "new"` for use with
// ContributionFilter.WithFilterExpression.
func CompileFilterExpression(input string) (*vm.Program, error) {
	program, err := expr.Compile(input, expr.Env(ContributionEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// ContributionFilter selects reconciled contributions by source, kind and
// an optional expression. A nil filter accepts everything.
type ContributionFilter struct {
	includeSources map[string]bool
	excludeSources map[string]bool
	includeKinds   map[string]bool

	filterProgram *vm.Program
}

// NewContributionFilter initializes a new empty filter.
func NewContributionFilter() *ContributionFilter {
	return &ContributionFilter{
		includeSources: make(map[string]bool),
		excludeSources: make(map[string]bool),
		includeKinds:   make(map[string]bool),
	}
}

// WithIncludedSources keeps only contributions from these sources.
func (f *ContributionFilter) WithIncludedSources(sources []string) *ContributionFilter {
	f.includeSources = toSet(sources)
	return f
}

// WithExcludedSources drops contributions from these sources.
func (f *ContributionFilter) WithExcludedSources(sources []string) *ContributionFilter {
	f.excludeSources = toSet(sources)
	return f
}

// WithKinds keeps only contributions of these kinds.
func (f *ContributionFilter) WithKinds(kinds []ContributionKind) *ContributionFilter {
	f.includeKinds = make(map[string]bool, len(kinds))
	for _, k := range kinds {
		f.includeKinds[string(k)] = true
	}
	return f
}

// WithFilterExpression applies a compiled Expr program for advanced filtering.
func (f *ContributionFilter) WithFilterExpression(program *vm.Program) *ContributionFilter {
	f.filterProgram = program
	return f
}

// Accepts evaluates whether a contribution matches the filter criteria.
// It returns the reason when the contribution is rejected.
func (f *ContributionFilter) Accepts(c Candidate) (bool, string) {
	if f == nil {
		return true, ""
	}

	var specs []ContributionSpecification

	if len(f.excludeSources) > 0 {
		specs = append(specs, NewExcludedSourcesSpecification(f.excludeSources))
	}
	if len(f.includeSources) > 0 {
		specs = append(specs, NewIncludedSourcesSpecification(f.includeSources))
	}
	if len(f.includeKinds) > 0 {
		specs = append(specs, NewIncludedKindsSpecification(f.includeKinds))
	}
	if f.filterProgram != nil {
		specs = append(specs, NewExpressionSpecification(f.filterProgram))
	}

	return NewAndSpecification(specs...).IsSatisfiedBy(c)
}

// toSet converts a slice to a map (set)
func toSet(slice []string) map[string]bool {
	s := make(map[string]bool, len(slice))
	for _, item := range slice {
		s[item] = true
	}
	return s
}
