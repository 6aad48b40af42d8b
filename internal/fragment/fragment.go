// Package fragment turns the raw text of a document's first pages into title candidates.
package fragment

import (
	"context"
	"fmt"
	"strings"

	"retitle/internal/classifier"
	"retitle/internal/normalizer"
)

const (
	// DefaultTopLines is how many lines from the top of the text are scanned.
	DefaultTopLines = 20
	// DefaultMaxFragments is how many candidates are presented to the operator.
	DefaultMaxFragments = 10
	// FailureText is the text of the sentinel fragment produced when extraction fails.
	FailureText = "--error, see log--"
)

// Fragment is one normalized candidate line.
type Fragment struct {
	Text        string
	Position    int  // index in the extracted sequence
	Line        int  // 0-based line number in the raw text
	LikelyTitle bool // hint only; biases presenters toward pre-selecting it
	Failed      bool // set on the extraction-failure sentinel
}

// Options bounds the extraction window.
type Options struct {
	TopLines     int
	MaxFragments int
	Classifier   *classifier.Classifier // nil means classifier.Default
}

// DefaultOptions returns the standard 20-line window yielding up to 10 fragments.
func DefaultOptions() Options {
	return Options{
		TopLines:     DefaultTopLines,
		MaxFragments: DefaultMaxFragments,
	}
}

func (o Options) withDefaults() Options {
	if o.TopLines <= 0 {
		o.TopLines = DefaultTopLines
	}
	if o.MaxFragments <= 0 {
		o.MaxFragments = DefaultMaxFragments
	}
	if o.Classifier == nil {
		o.Classifier = classifier.Default
	}
	return o
}

// scan is the accumulator threaded through one extraction pass.
type scan struct {
	titleSeen bool
	out       []Fragment
}

func (s scan) add(text string, line int, noise bool) scan {
	likely := !s.titleSeen && !noise
	if likely {
		s.titleSeen = true
	}
	s.out = append(s.out, Fragment{
		Text:        text,
		Position:    len(s.out),
		Line:        line,
		LikelyTitle: likely,
	})
	return s
}

// Extract scans the first opts.TopLines lines of raw and returns up to opts.MaxFragments
// candidates in scan order. Only the first non-noise candidate is marked LikelyTitle;
// noise lines are kept as selectable candidates.
func Extract(raw string, opts Options) []Fragment {
	opts = opts.withDefaults()

	var s scan
	for i, line := range SplitLines(raw) {
		if i >= opts.TopLines || len(s.out) >= opts.MaxFragments {
			break
		}
		text, ok := normalizer.Normalize(line)
		if !ok {
			continue
		}
		s = s.add(text, i, opts.Classifier.IsNoise(text))
	}
	return s.out
}

// SplitLines splits text on \n, \r\n, \r, \f and \v. A trailing terminator does not
// produce an empty final line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n', '\f', '\v':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// TextSource yields the raw text of a document's leading pages.
type TextSource interface {
	Text(ctx context.Context, path string) (string, error)
}

// Failure returns the single sentinel fragment that stands for a failed extraction.
func Failure() []Fragment {
	return []Fragment{{Text: FailureText, Failed: true}}
}

// IsFailure reports whether frags is the extraction-failure sentinel.
func IsFailure(frags []Fragment) bool {
	return len(frags) == 1 && frags[0].Failed
}

// ExtractDocument reads path through src and extracts its fragments.
//
// It never fails outright: when src returns an error, the result is the Failure sentinel
// and the error is returned alongside it for logging.
func ExtractDocument(ctx context.Context, src TextSource, path string, opts Options) ([]Fragment, error) {
	raw, err := src.Text(ctx, path)
	if err != nil {
		return Failure(), err
	}
	return Extract(raw, opts), nil
}

// Texts returns the text of each fragment, in order.
func Texts(frags []Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Text
	}
	return out
}

// String renders frags one per line as "<index> <mark> <text>", where the mark is "*" on
// the likely title.
func String(frags []Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		mark := " "
		if f.LikelyTitle {
			mark = "*"
		}
		fmt.Fprintf(&b, "%2d %s %s\n", f.Position, mark, f.Text)
	}
	return b.String()
}
