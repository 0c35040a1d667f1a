package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Candidate is the flattened form of a contribution seen by filters.
type Candidate struct {
	Source string
	Kind   ContributionKind
	Target string // profile GUID or scheme name
	Name   string // profile display name or scheme name
	Path   string
}

func profileCandidate(kind ContributionKind, c ProfileContribution) Candidate {
	return Candidate{
		Source: c.Source.String(),
		Kind:   kind,
		Target: c.Profile.ID.String(),
		Name:   c.Profile.Name,
		Path:   c.FragmentPath,
	}
}

func schemeCandidate(c SchemeContribution) Candidate {
	return Candidate{
		Source: c.Source.String(),
		Kind:   KindColorScheme,
		Target: c.Scheme.Name.String(),
		Name:   c.Scheme.Name.String(),
		Path:   c.FragmentPath,
	}
}

// ContributionSpecification defines a condition a contribution must meet.
type ContributionSpecification interface {
	// IsSatisfiedBy returns true if satisfied, along with a reason if not.
	IsSatisfiedBy(c Candidate) (bool, string)
}

// AndSpecification combines multiple specifications with logical AND.
type AndSpecification struct {
	specs []ContributionSpecification
}

// NewAndSpecification creates a new AndSpecification.
func NewAndSpecification(specs ...ContributionSpecification) *AndSpecification {
	return &AndSpecification{specs: specs}
}

// IsSatisfiedBy checks if all specifications are satisfied.
func (s *AndSpecification) IsSatisfiedBy(c Candidate) (bool, string) {
	for _, spec := range s.specs {
		if satisfied, reason := spec.IsSatisfiedBy(c); !satisfied {
			return false, reason
		}
	}
	return true, ""
}

// IncludedSourcesSpecification includes only contributions from the given sources.
type IncludedSourcesSpecification struct {
	sources map[string]bool
}

// NewIncludedSourcesSpecification creates a new IncludedSourcesSpecification.
func NewIncludedSourcesSpecification(sources map[string]bool) *IncludedSourcesSpecification {
	return &IncludedSourcesSpecification{sources: sources}
}

// IsSatisfiedBy checks if the contribution source is in the included list.
func (s *IncludedSourcesSpecification) IsSatisfiedBy(c Candidate) (bool, string) {
	if len(s.sources) == 0 {
		return true, ""
	}
	if !s.sources[c.Source] {
		return false, "excluded by --source filter"
	}
	return true, ""
}

// ExcludedSourcesSpecification excludes contributions from the given sources.
type ExcludedSourcesSpecification struct {
	sources map[string]bool
}

// NewExcludedSourcesSpecification creates a new ExcludedSourcesSpecification.
func NewExcludedSourcesSpecification(sources map[string]bool) *ExcludedSourcesSpecification {
	return &ExcludedSourcesSpecification{sources: sources}
}

// IsSatisfiedBy checks if the contribution source is NOT in the excluded list.
func (s *ExcludedSourcesSpecification) IsSatisfiedBy(c Candidate) (bool, string) {
	if s.sources[c.Source] {
		return false, fmt.Sprintf("excluded by --exclude-source %s", c.Source)
	}
	return true, ""
}

// IncludedKindsSpecification includes only contributions of the given kinds.
type IncludedKindsSpecification struct {
	kinds map[string]bool
}

// NewIncludedKindsSpecification creates a new IncludedKindsSpecification.
func NewIncludedKindsSpecification(kinds map[string]bool) *IncludedKindsSpecification {
	return &IncludedKindsSpecification{kinds: kinds}
}

// IsSatisfiedBy checks if the contribution kind is in the included list.
func (s *IncludedKindsSpecification) IsSatisfiedBy(c Candidate) (bool, string) {
	if len(s.kinds) == 0 {
		return true, ""
	}
	if !s.kinds[string(c.Kind)] {
		return false, "excluded by --kind filter"
	}
	return true, ""
}

// ExpressionSpecification filters contributions using an expr program.
type ExpressionSpecification struct {
	program *vm.Program
}

// NewExpressionSpecification creates a new ExpressionSpecification.
func NewExpressionSpecification(program *vm.Program) *ExpressionSpecification {
	return &ExpressionSpecification{program: program}
}

// IsSatisfiedBy evaluates the expr program against the contribution.
func (s *ExpressionSpecification) IsSatisfiedBy(c Candidate) (bool, string) {
	if s.program == nil {
		return true, ""
	}

	env := ContributionEnv{
		Source: c.Source,
		Kind:   string(c.Kind),
		Target: c.Target,
		Name:   c.Name,
		Path:   c.Path,
	}

	output, err := expr.Run(s.program, env)
	if err != nil {
		return false, fmt.Sprintf("filter expression error: %v", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Sprintf("filter expression did not return boolean: %v", output)
	}

	if !result {
		return false, "excluded by --filter expression"
	}
	return true, ""
}
