package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/overlay/internal/application/dto"
	"github.com/reglet-dev/overlay/internal/domain/services"
)

// JSONFormatter formats views and listings as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// FormatView writes the resolved view as JSON.
func (f *JSONFormatter) FormatView(view *services.ResolvedView) error {
	return f.encode(newViewDocument(view))
}

// FormatStatuses writes the extension listing as JSON.
func (f *JSONFormatter) FormatStatuses(statuses []dto.ExtensionStatus) error {
	if statuses == nil {
		statuses = []dto.ExtensionStatus{}
	}
	return f.encode(statuses)
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	if f.indent {
		encoder.SetIndent("", "  ")
	}
	// Encode terminates each value with a newline.
	return encoder.Encode(v)
}
