package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/overlay/internal/application/dto"
	"github.com/reglet-dev/overlay/internal/domain/entities"
	"github.com/reglet-dev/overlay/internal/domain/services"
	"github.com/reglet-dev/overlay/internal/domain/values"
)

const guidPowerShell = "{61c54bbd-c2c6-5271-96e7-009a87ff44bf}"

func sampleView() *services.ResolvedView {
	registry := entities.NewRegistry(
		[]entities.Profile{{ID: values.MustNewProfileID(guidPowerShell), Name: "PowerShell"}},
		[]entities.ColorScheme{{Name: values.MustNewSchemeName("Campbell")}},
	)
	catalog := entities.NewFragmentCatalog(
		entities.Fragment{
			Source: values.MustNewSourceID("Git"),
			Path:   "/fragments/git.json",
			ModifiedProfiles: []entities.ProfileEntry{
				{Target: values.MustNewProfileID(guidPowerShell), Payload: entities.Payload{"font": "Cascadia"}},
			},
			ColorSchemes: []entities.SchemeEntry{{Target: values.MustNewSchemeName("Campbell")}},
		},
		entities.Fragment{Source: values.MustNewSourceID("Empty")},
	)
	return services.NewOverlayResolver().Resolve(registry, catalog)
}

func sampleStatuses() []dto.ExtensionStatus {
	return []dto.ExtensionStatus{
		{Source: "Git", Enabled: true, Fragments: 1, ModifiedProfiles: 1, ColorSchemes: 1},
		{Source: "Ubuntu", Enabled: false, Fragments: 2, NewProfiles: 1, Unresolved: 3},
	}
}

func TestJSONFormatter_FormatView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, true).FormatView(sampleView()))

	var doc viewDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, services.ViewCounts{Fragments: 2, ModifiedProfiles: 1, ColorSchemes: 1}, doc.Counts)
	require.Len(t, doc.Extensions, 2)
	assert.Equal(t, "Git", doc.Extensions[0].Source)
	require.Len(t, doc.Extensions[0].ModifiedProfiles, 1)
	assert.Equal(t, guidPowerShell, doc.Extensions[0].ModifiedProfiles[0].GUID)
	assert.Equal(t, "Cascadia", doc.Extensions[0].ModifiedProfiles[0].Payload["font"])
	assert.Empty(t, doc.Extensions[1].ModifiedProfiles)
}

func TestJSONFormatter_FormatStatuses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf, false).FormatStatuses(nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, NewJSONFormatter(&buf, false).FormatStatuses(sampleStatuses()))

	var got []dto.ExtensionStatus
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleStatuses(), got)
}

func TestYAMLFormatter_FormatStatuses(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).FormatStatuses(sampleStatuses()))

	assert.Contains(t, buf.String(), "source: Git")
	assert.Contains(t, buf.String(), "unresolved: 3")

	var got []dto.ExtensionStatus
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleStatuses(), got)
}

func TestYAMLFormatter_FormatView(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(&buf).FormatView(sampleView()))

	out := buf.String()
	assert.Contains(t, out, "modified_profiles: 1")
	assert.Contains(t, out, "source: Git")
	assert.Contains(t, out, "name: Campbell")
}

func TestTableFormatter_FormatView(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	f.EnableColor = false

	require.NoError(t, f.FormatView(sampleView()))

	out := buf.String()
	assert.Contains(t, out, "Git (/fragments/git.json)")
	assert.Contains(t, out, "Modified profiles:")
	assert.Contains(t, out, "✓ PowerShell "+guidPowerShell)
	assert.Contains(t, out, "Color schemes:")
	assert.Contains(t, out, "Empty\n  no contributions")
	assert.Contains(t, out, "Summary: 2 fragments, 1 modified profiles, 0 new profiles, 1 color schemes")
	assert.NotContains(t, out, "\x1b[")
}

func TestTableFormatter_FormatViewEmpty(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	f.EnableColor = false

	require.NoError(t, f.FormatView(&services.ResolvedView{}))
	assert.Equal(t, "No fragments found.\n", buf.String())
}

func TestTableFormatter_FormatStatuses(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)
	f.EnableColor = false

	require.NoError(t, f.FormatStatuses(sampleStatuses()))

	out := buf.String()
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "UNRESOLVED")
	assert.Contains(t, out, "Git")
	assert.Contains(t, out, "enabled")
	assert.Contains(t, out, "disabled")
	assert.NotContains(t, out, "\x1b[")

	buf.Reset()
	require.NoError(t, f.FormatStatuses(nil))
	assert.Equal(t, "No extensions found.\n", buf.String())
}
