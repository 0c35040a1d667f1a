// Package settings implements the settings model on top of a YAML
// document and a set of fragment directories.
package settings

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

const (
	// CurrentVersion is written into documents created from scratch.
	CurrentVersion = "1.0.0"

	keyDisabledSources = "disabledProfileSources"
	keyGUID            = "guid"
	keyName            = "name"
)

// Document is the typed view of a settings file.
//
// DisabledProfileSources is a pointer so that a missing key (nil) stays
// distinguishable from an explicit empty list.
type Document struct {
	Version                string        `yaml:"version"`
	Profiles               []ProfileDoc  `yaml:"profiles"`
	Schemes                []SchemeDoc   `yaml:"schemes"`
	DisabledProfileSources *[]string     `yaml:"disabledProfileSources"`
	Fragments              []FragmentDoc `yaml:"fragments"`
}

// ProfileDoc is a profile as stored in the settings file. Unknown keys are
// ignored here and preserved on write-back.
type ProfileDoc struct {
	GUID   string `yaml:"guid"`
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Hidden bool   `yaml:"hidden"`
}

// SchemeDoc is a color scheme as stored in the settings file.
type SchemeDoc struct {
	Name       string `yaml:"name"`
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
}

// FragmentDoc is one fragment, either inline in the settings file or as a
// standalone file in a fragment directory. Each entry is an arbitrary
// object keyed by its target (guid or name); the remaining keys are the
// entry's payload.
type FragmentDoc struct {
	Source           string           `yaml:"source"`
	ModifiedProfiles []map[string]any `yaml:"modifiedProfiles"`
	NewProfiles      []map[string]any `yaml:"newProfiles"`
	Schemes          []map[string]any `yaml:"schemes"`
}

// toRegistry converts the document's profiles and schemes into a registry.
func (d *Document) toRegistry() (*entities.Registry, error) {
	profiles := make([]entities.Profile, 0, len(d.Profiles))
	for i, p := range d.Profiles {
		id, err := values.NewProfileID(p.GUID)
		if err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		profiles = append(profiles, entities.Profile{
			ID:     id,
			Name:   p.Name,
			Source: p.Source,
			Hidden: p.Hidden,
		})
	}

	schemes := make([]entities.ColorScheme, 0, len(d.Schemes))
	for i, s := range d.Schemes {
		name, err := values.NewSchemeName(s.Name)
		if err != nil {
			return nil, fmt.Errorf("schemes[%d]: %w", i, err)
		}
		schemes = append(schemes, entities.ColorScheme{
			Name:       name,
			Foreground: s.Foreground,
			Background: s.Background,
		})
	}

	return entities.NewRegistry(profiles, schemes), nil
}

// disabledSources returns the parsed disabled list and whether it is defined.
func (d *Document) disabledSources() (values.SourceSet, bool, error) {
	if d.DisabledProfileSources == nil {
		return values.SourceSet{}, false, nil
	}
	set, err := values.ParseSourceSet(*d.DisabledProfileSources)
	if err != nil {
		return values.SourceSet{}, false, fmt.Errorf("%s: %w", keyDisabledSources, err)
	}
	return set, true, nil
}

// toFragment converts a fragment document. fallbackSource is used when the
// document does not name its source.
func (f *FragmentDoc) toFragment(path, fallbackSource string) (entities.Fragment, error) {
	raw := f.Source
	if raw == "" {
		raw = fallbackSource
	}
	source, err := values.NewSourceID(raw)
	if err != nil {
		return entities.Fragment{}, fmt.Errorf("fragment source: %w", err)
	}

	modified, err := profileEntries("modifiedProfiles", f.ModifiedProfiles)
	if err != nil {
		return entities.Fragment{}, err
	}
	added, err := profileEntries("newProfiles", f.NewProfiles)
	if err != nil {
		return entities.Fragment{}, err
	}
	schemes, err := schemeEntries(f.Schemes)
	if err != nil {
		return entities.Fragment{}, err
	}

	return entities.Fragment{
		Source:           source,
		Path:             path,
		ModifiedProfiles: modified,
		NewProfiles:      added,
		ColorSchemes:     schemes,
	}, nil
}

func profileEntries(field string, raw []map[string]any) ([]entities.ProfileEntry, error) {
	out := make([]entities.ProfileEntry, 0, len(raw))
	for i, obj := range raw {
		guid, _ := obj[keyGUID].(string)
		id, err := values.ParseProfileTarget(guid)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		out = append(out, entities.ProfileEntry{Target: id, Payload: payloadWithout(obj, keyGUID)})
	}
	return out, nil
}

func schemeEntries(raw []map[string]any) ([]entities.SchemeEntry, error) {
	out := make([]entities.SchemeEntry, 0, len(raw))
	for i, obj := range raw {
		name, _ := obj[keyName].(string)
		target, err := values.NewSchemeName(name)
		if err != nil {
			return nil, fmt.Errorf("schemes[%d]: %w", i, err)
		}
		out = append(out, entities.SchemeEntry{Target: target, Payload: payloadWithout(obj, keyName)})
	}
	return out, nil
}

// payloadWithout copies obj minus the target key. Returns nil when nothing
// is left.
func payloadWithout(obj map[string]any, key string) entities.Payload {
	out := make(entities.Payload, len(obj))
	for k, v := range obj {
		if k == key {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// flowList always encodes as a flow sequence so that an empty list is
// written as [] and reads back as defined.
type flowList []string

// MarshalYAML implements yaml.BytesMarshaler.
func (l flowList) MarshalYAML() ([]byte, error) {
	if l == nil {
		l = flowList{}
	}
	return json.Marshal([]string(l))
}

// withDisabledSources returns a copy of the top-level mapping with the
// disabled list replaced, or appended when the key was missing.
func withDisabledSources(raw yaml.MapSlice, set values.SourceSet) yaml.MapSlice {
	out := make(yaml.MapSlice, 0, len(raw)+1)
	replaced := false
	for _, item := range raw {
		if k, ok := item.Key.(string); ok && k == keyDisabledSources {
			out = append(out, yaml.MapItem{Key: keyDisabledSources, Value: flowList(set.Strings())})
			replaced = true
			continue
		}
		out = append(out, item)
	}
	if !replaced {
		out = append(out, yaml.MapItem{Key: keyDisabledSources, Value: flowList(set.Strings())})
	}
	return out
}
