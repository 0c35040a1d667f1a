// Package prompt provides interactive terminal prompts.
package prompt

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/reglet-dev/overlay/internal/application/dto"
)

// TogglePrompter asks which extension sources should be enabled using a
// multi-select form.
type TogglePrompter struct {
	input *os.File
}

// NewTogglePrompter creates a prompter reading from stdin.
func NewTogglePrompter() *TogglePrompter {
	return &TogglePrompter{input: os.Stdin}
}

// IsInteractive reports whether stdin is a terminal.
func (p *TogglePrompter) IsInteractive() bool {
	return term.IsTerminal(int(p.input.Fd()))
}

// PromptForStates shows every source with its current state pre-selected
// and returns the states chosen by the user, in the same order.
func (p *TogglePrompter) PromptForStates(ctx context.Context, current []dto.ExtensionState) ([]dto.ExtensionState, error) {
	var selected []string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Enabled extensions").
				Description("space toggles, enter confirms").
				Options(options(current)...).
				Value(&selected),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("toggle form: %w", err)
	}

	return statesFromSelection(current, selected), nil
}

func options(current []dto.ExtensionState) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(current))
	for _, s := range current {
		opts = append(opts, huh.NewOption(s.Source, s.Source).Selected(s.Enabled))
	}
	return opts
}

// statesFromSelection maps the selected sources back onto current.
func statesFromSelection(current []dto.ExtensionState, selected []string) []dto.ExtensionState {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	out := make([]dto.ExtensionState, 0, len(current))
	for _, s := range current {
		out = append(out, dto.ExtensionState{Source: s.Source, Enabled: chosen[s.Source]})
	}
	return out
}
