package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/overlay/internal/application/ports"
)

func TestFormatterFactory_Create(t *testing.T) {
	factory := NewFormatterFactory()
	buf := &bytes.Buffer{}

	tests := []struct {
		name        string
		format      string
		options     ports.FormatterOptions
		wantErr     bool
		wantType    interface{}
		errContains string
	}{
		{
			name:     "table format",
			format:   "table",
			wantType: &TableFormatter{},
		},
		{
			name:     "json format",
			format:   "json",
			options:  ports.FormatterOptions{Indent: true},
			wantType: &JSONFormatter{},
		},
		{
			name:     "yaml format",
			format:   "yaml",
			wantType: &YAMLFormatter{},
		},
		{
			name:        "unknown format",
			format:      "sarif",
			wantErr:     true,
			errContains: "unknown format: sarif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter, err := factory.Create(tt.format, buf, tt.options)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, formatter)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, formatter)
		})
	}
}

func TestFormatterFactory_TableColorOption(t *testing.T) {
	factory := NewFormatterFactory()

	formatter, err := factory.Create("table", &bytes.Buffer{}, ports.FormatterOptions{Color: false})
	require.NoError(t, err)
	assert.False(t, formatter.(*TableFormatter).EnableColor)
}

func TestFormatterFactory_SupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"table", "json", "yaml"}, NewFormatterFactory().SupportedFormats())
}
