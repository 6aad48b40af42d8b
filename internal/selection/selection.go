// Package selection holds the state a presentation surface edits while the operator builds
// a filename, and the Presenter contract that surfaces implement.
package selection

import (
	"context"
	"sort"
	"strings"

	"retitle/internal/composer"
	"retitle/internal/fragment"
)

// Outcome is the operator's verdict on one document.
type Outcome int

const (
	// Cancel skips the document and moves on.
	Cancel Outcome = iota
	// Confirm renames the document to Decision.Filename.
	Confirm
	// Abort stops the whole run.
	Abort
)

func (o Outcome) String() string {
	switch o {
	case Confirm:
		return "confirm"
	case Abort:
		return "abort"
	default:
		return "cancel"
	}
}

// Decision is what a presenter returns for a document.
type Decision struct {
	Outcome  Outcome
	Filename string
}

// Document is a file awaiting a decision together with its candidate fragments.
type Document struct {
	Path      string
	Fragments []fragment.Fragment
}

// Presenter shows a document to the operator and returns their decision.
type Presenter interface {
	Present(ctx context.Context, doc Document) (Decision, error)
}

// State is the mutable selection a presenter owns for one document. The preview is
// recomputed from scratch on every read.
type State struct {
	frags    []fragment.Fragment
	selected map[int]bool
	opts     composer.Options
	manual   string
}

// New returns the state for frags, with the likely-title fragment pre-selected.
func New(frags []fragment.Fragment, opts composer.Options) *State {
	s := &State{
		frags:    frags,
		selected: make(map[int]bool),
		opts:     opts,
	}
	for i, f := range frags {
		if f.LikelyTitle && !f.Failed {
			s.selected[i] = true
		}
	}
	return s
}

// Fragments returns the fragments in extraction order.
func (s *State) Fragments() []fragment.Fragment {
	return s.frags
}

// Options returns the current composition options.
func (s *State) Options() composer.Options {
	return s.opts
}

// Selected returns the selected indices in ascending order.
func (s *State) Selected() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// IsSelected reports whether fragment i is selected.
func (s *State) IsSelected(i int) bool {
	return s.selected[i]
}

// Toggle flips the selection of fragment i. The failure sentinel and out-of-range
// indices cannot be selected. It reports whether anything changed.
func (s *State) Toggle(i int) bool {
	if i < 0 || i >= len(s.frags) || s.frags[i].Failed {
		return false
	}
	if s.selected[i] {
		delete(s.selected, i)
	} else {
		s.selected[i] = true
	}
	s.manual = ""
	return true
}

// SetCase sets the case policy.
func (s *State) SetCase(m composer.CaseMode) {
	s.opts.Case = m
	s.manual = ""
}

// SetSanitize sets the sanitization policy.
func (s *State) SetSanitize(m composer.SanitizeMode) {
	s.opts.Sanitize = m
	s.manual = ""
}

// CycleCase advances to the next case policy.
func (s *State) CycleCase() {
	s.SetCase(s.opts.Case.Next())
}

// CycleSanitize advances to the next sanitization policy.
func (s *State) CycleSanitize() {
	s.SetSanitize(s.opts.Sanitize.Next())
}

// SetManual replaces the composed name with name. The configured extension is appended
// when name lacks it. A blank name clears the override.
func (s *State) SetManual(name string) {
	name = strings.TrimSpace(name)
	if name != "" && s.opts.Extension != "" && !strings.HasSuffix(strings.ToLower(name), strings.ToLower(s.opts.Extension)) {
		name += s.opts.Extension
	}
	s.manual = name
}

// Manual returns the manual override, if one is set.
func (s *State) Manual() (string, bool) {
	return s.manual, s.manual != ""
}

// Preview returns the filename a confirmation would use right now.
func (s *State) Preview() string {
	if s.manual != "" {
		return s.manual
	}
	return composer.Compose(s.frags, s.Selected(), s.opts)
}

// Decide returns a Confirm decision for the current preview, or Cancel when the preview
// is empty.
func (s *State) Decide() Decision {
	name := s.Preview()
	if name == "" {
		return Decision{Outcome: Cancel}
	}
	return Decision{Outcome: Confirm, Filename: name}
}
