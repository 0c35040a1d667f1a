package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/reglet-dev/overlay/internal/application/dto"
	"github.com/reglet-dev/overlay/internal/domain/services"
)

var (
	styleBold  = lipgloss.NewStyle().Bold(true)
	styleGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleGray  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleRed   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleCyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// TableFormatter formats views and listings for humans.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize renders text with style if color is enabled.
func (f *TableFormatter) colorize(text string, style lipgloss.Style) string {
	if !f.EnableColor {
		return text
	}
	return style.Render(text)
}

// FormatView writes the resolved view grouped by extension.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatView(view *services.ResolvedView) error {
	rule := f.colorize(strings.Repeat("─", 80), styleGray)

	if len(view.Extensions) == 0 {
		fmt.Fprintln(f.writer, "No fragments found.")
		return nil
	}

	fmt.Fprintln(f.writer, rule)
	for _, ext := range view.Extensions {
		header := f.colorize(ext.Source.String(), styleBold)
		if ext.FragmentPath != "" {
			header += " " + f.colorize("("+ext.FragmentPath+")", styleGray)
		}
		fmt.Fprintln(f.writer, header)

		if ext.Len() == 0 {
			fmt.Fprintln(f.writer, f.colorize("  no contributions", styleGray))
		}
		f.formatProfiles("Modified profiles", ext.ModifiedProfiles)
		f.formatProfiles("New profiles", ext.NewProfiles)
		if len(ext.ColorSchemes) > 0 {
			fmt.Fprintf(f.writer, "  %s:\n", "Color schemes")
			for _, c := range ext.ColorSchemes {
				fmt.Fprintf(f.writer, "    %s %s\n", f.colorize("✓", styleGreen), c.Scheme.Name)
			}
		}
	}
	fmt.Fprintln(f.writer, rule)

	c := view.Counts()
	fmt.Fprintf(f.writer, "%s %d fragments, %d modified profiles, %d new profiles, %d color schemes\n",
		f.colorize("Summary:", styleBold),
		c.Fragments, c.ModifiedProfiles, c.NewProfiles, c.ColorSchemes,
	)
	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatProfiles(title string, contributions []services.ProfileContribution) {
	if len(contributions) == 0 {
		return
	}
	fmt.Fprintf(f.writer, "  %s:\n", title)
	for _, c := range contributions {
		fmt.Fprintf(f.writer, "    %s %s %s\n",
			f.colorize("✓", styleGreen),
			c.Profile.Name,
			f.colorize(c.Profile.ID.String(), styleCyan),
		)
	}
}

// FormatStatuses writes one row per extension source.
func (f *TableFormatter) FormatStatuses(statuses []dto.ExtensionStatus) error {
	if len(statuses) == 0 {
		_, err := fmt.Fprintln(f.writer, "No extensions found.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SOURCE", "STATE", "FRAGMENTS", "MODIFIED", "NEW", "SCHEMES", "UNRESOLVED")

	for _, s := range statuses {
		state := f.colorize("enabled", styleGreen)
		if !s.Enabled {
			state = f.colorize("disabled", styleRed)
		}
		t.Row(
			s.Source,
			state,
			strconv.Itoa(s.Fragments),
			strconv.Itoa(s.ModifiedProfiles),
			strconv.Itoa(s.NewProfiles),
			strconv.Itoa(s.ColorSchemes),
			strconv.Itoa(s.Unresolved),
		)
	}

	if f.EnableColor {
		t.BorderStyle(styleGray).StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleBold.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	} else {
		t.StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}

	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}
