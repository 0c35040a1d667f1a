package output

import (
	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/services"
)

// viewDocument is the serialized form of a resolved view.
type viewDocument struct {
	Counts     services.ViewCounts `json:"counts" yaml:"counts"`
	Extensions []extensionDocument `json:"extensions" yaml:"extensions"`
}

type extensionDocument struct {
	Source           string            `json:"source" yaml:"source"`
	Path             string            `json:"path,omitempty" yaml:"path,omitempty"`
	ModifiedProfiles []profileDocument `json:"modified_profiles,omitempty" yaml:"modified_profiles,omitempty"`
	NewProfiles      []profileDocument `json:"new_profiles,omitempty" yaml:"new_profiles,omitempty"`
	ColorSchemes     []schemeDocument  `json:"color_schemes,omitempty" yaml:"color_schemes,omitempty"`
}

type profileDocument struct {
	GUID    string           `json:"guid" yaml:"guid"`
	Name    string           `json:"name" yaml:"name"`
	Payload entities.Payload `json:"payload,omitempty" yaml:"payload,omitempty"`
}

type schemeDocument struct {
	Name    string           `json:"name" yaml:"name"`
	Payload entities.Payload `json:"payload,omitempty" yaml:"payload,omitempty"`
}

func newViewDocument(view *services.ResolvedView) viewDocument {
	doc := viewDocument{
		Counts:     view.Counts(),
		Extensions: make([]extensionDocument, 0, len(view.Extensions)),
	}
	for _, ext := range view.Extensions {
		doc.Extensions = append(doc.Extensions, extensionDocument{
			Source:           ext.Source.String(),
			Path:             ext.FragmentPath,
			ModifiedProfiles: profileDocuments(ext.ModifiedProfiles),
			NewProfiles:      profileDocuments(ext.NewProfiles),
			ColorSchemes:     schemeDocuments(ext.ColorSchemes),
		})
	}
	return doc
}

func profileDocuments(in []services.ProfileContribution) []profileDocument {
	if len(in) == 0 {
		return nil
	}
	out := make([]profileDocument, 0, len(in))
	for _, c := range in {
		out = append(out, profileDocument{
			GUID:    c.Profile.ID.String(),
			Name:    c.Profile.Name,
			Payload: c.Payload,
		})
	}
	return out
}

func schemeDocuments(in []services.SchemeContribution) []schemeDocument {
	if len(in) == 0 {
		return nil
	}
	out := make([]schemeDocument, 0, len(in))
	for _, c := range in {
		out = append(out, schemeDocument{
			Name:    c.Scheme.Name.String(),
			Payload: c.Payload,
		})
	}
	return out
}
