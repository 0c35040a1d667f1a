package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/overlay/internal/application/dto"
	"github.com/reglet-dev/overlay/internal/domain/services"
)

// YAMLFormatter formats views and listings as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// FormatView writes the resolved view as YAML.
func (f *YAMLFormatter) FormatView(view *services.ResolvedView) error {
	return f.encode(newViewDocument(view))
}

// FormatStatuses writes the extension listing as YAML.
func (f *YAMLFormatter) FormatStatuses(statuses []dto.ExtensionStatus) error {
	return f.encode(statuses)
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
