package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"retitle/internal/composer"
	"retitle/internal/selection"
)

// Presenter runs one bubbletea program per document.
type Presenter struct {
	in   io.Reader
	out  io.Writer
	opts composer.Options
}

// NewPresenter creates a Presenter on the given terminal streams.
func NewPresenter(in io.Reader, out io.Writer, opts composer.Options) *Presenter {
	return &Presenter{in: in, out: out, opts: opts}
}

// Present shows the picker for doc and blocks until the operator decides.
func (p *Presenter) Present(ctx context.Context, doc selection.Document) (selection.Decision, error) {
	model := NewModel(doc, p.opts)
	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)

	final, err := prog.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return selection.Decision{Outcome: selection.Abort}, ctx.Err()
		}
		return selection.Decision{Outcome: selection.Cancel}, fmt.Errorf("running picker: %w", err)
	}

	m, ok := final.(*Model)
	if !ok {
		return selection.Decision{Outcome: selection.Cancel}, fmt.Errorf("unexpected model type %T", final)
	}
	return m.Decision(), nil
}
