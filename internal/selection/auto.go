package selection

import (
	"context"

	"retitle/internal/composer"
	"retitle/internal/fragment"
)

// Auto confirms the likely-title composition without asking anyone.
type Auto struct {
	Options composer.Options
}

// NewAuto returns an Auto presenter composing with opts.
func NewAuto(opts composer.Options) *Auto {
	return &Auto{Options: opts}
}

// Present cancels failed extractions and documents with no likely title; otherwise it
// confirms the composed name.
func (a *Auto) Present(ctx context.Context, doc Document) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{Outcome: Abort}, err
	}
	if fragment.IsFailure(doc.Fragments) {
		return Decision{Outcome: Cancel}, nil
	}
	return New(doc.Fragments, a.Options).Decide(), nil
}
