package services

import (
	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

// ContributionKind names the three kinds of fragment entries.
type ContributionKind string

const (
	// KindModifiedProfile is an entry that modifies an existing profile.
	KindModifiedProfile ContributionKind = "modified"
	// KindNewProfile is an entry describing a profile the fragment added.
	KindNewProfile ContributionKind = "new"
	// KindColorScheme is an entry that contributes a color scheme.
	KindColorScheme ContributionKind = "scheme"
)

// AllContributionKinds lists every kind in presentation order.
func AllContributionKinds() []ContributionKind {
	return []ContributionKind{KindModifiedProfile, KindNewProfile, KindColorScheme}
}

// ProfileContribution is a reconciled profile entry. It only exists when the
// target profile was present in the registry at resolution time.
type ProfileContribution struct {
	Source       values.SourceID
	FragmentPath string
	Profile      entities.Profile
	Payload      entities.Payload
}

// SchemeContribution is a reconciled color scheme entry.
type SchemeContribution struct {
	Source       values.SourceID
	FragmentPath string
	Scheme       entities.ColorScheme
	Payload      entities.Payload
}

// FragmentContributions holds the reconciled entries of one fragment.
type FragmentContributions struct {
	Source           values.SourceID
	FragmentPath     string
	ModifiedProfiles []ProfileContribution
	NewProfiles      []ProfileContribution
	ColorSchemes     []SchemeContribution
}

// Len returns the number of reconciled entries in the fragment.
func (f FragmentContributions) Len() int {
	return len(f.ModifiedProfiles) + len(f.NewProfiles) + len(f.ColorSchemes)
}

// ResolvedView is an immutable snapshot of one resolution pass.
// Extensions is parallel to Fragments.
type ResolvedView struct {
	Fragments  []entities.Fragment
	Extensions []FragmentContributions
}

// ViewCounts summarizes a view.
type ViewCounts struct {
	Fragments        int `json:"fragments" yaml:"fragments"`
	ModifiedProfiles int `json:"modified_profiles" yaml:"modified_profiles"`
	NewProfiles      int `json:"new_profiles" yaml:"new_profiles"`
	ColorSchemes     int `json:"color_schemes" yaml:"color_schemes"`
}

// ModifiedProfiles returns every reconciled profile modification in catalog order.
func (v *ResolvedView) ModifiedProfiles() []ProfileContribution {
	var out []ProfileContribution
	for _, ext := range v.Extensions {
		out = append(out, ext.ModifiedProfiles...)
	}
	return out
}

// NewProfiles returns every reconciled profile addition in catalog order.
func (v *ResolvedView) NewProfiles() []ProfileContribution {
	var out []ProfileContribution
	for _, ext := range v.Extensions {
		out = append(out, ext.NewProfiles...)
	}
	return out
}

// ColorSchemes returns every reconciled color scheme addition in catalog order.
func (v *ResolvedView) ColorSchemes() []SchemeContribution {
	var out []SchemeContribution
	for _, ext := range v.Extensions {
		out = append(out, ext.ColorSchemes...)
	}
	return out
}

// Counts returns the number of fragments and reconciled entries per kind.
func (v *ResolvedView) Counts() ViewCounts {
	c := ViewCounts{Fragments: len(v.Fragments)}
	for _, ext := range v.Extensions {
		c.ModifiedProfiles += len(ext.ModifiedProfiles)
		c.NewProfiles += len(ext.NewProfiles)
		c.ColorSchemes += len(ext.ColorSchemes)
	}
	return c
}

// Select returns a copy of the view keeping only contributions accepted by
// filter. Fragments are kept as-is; a fragment whose contributions are all
// rejected is still listed with empty sequences.
func (v *ResolvedView) Select(filter *ContributionFilter) *ResolvedView {
	out := &ResolvedView{
		Fragments:  append([]entities.Fragment(nil), v.Fragments...),
		Extensions: make([]FragmentContributions, 0, len(v.Extensions)),
	}
	for _, ext := range v.Extensions {
		kept := FragmentContributions{Source: ext.Source, FragmentPath: ext.FragmentPath}
		for _, c := range ext.ModifiedProfiles {
			if ok, _ := filter.Accepts(profileCandidate(KindModifiedProfile, c)); ok {
				kept.ModifiedProfiles = append(kept.ModifiedProfiles, c)
			}
		}
		for _, c := range ext.NewProfiles {
			if ok, _ := filter.Accepts(profileCandidate(KindNewProfile, c)); ok {
				kept.NewProfiles = append(kept.NewProfiles, c)
			}
		}
		for _, c := range ext.ColorSchemes {
			if ok, _ := filter.Accepts(schemeCandidate(c)); ok {
				kept.ColorSchemes = append(kept.ColorSchemes, c)
			}
		}
		out.Extensions = append(out.Extensions, kept)
	}
	return out
}
