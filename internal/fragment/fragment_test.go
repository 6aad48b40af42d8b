package fragment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"retitle/internal/classifier"
)

const samplePage = `JOURNAL OF PARALLEL COMPUTING
12

Efficient Algorithms for Stream Processing
at Scale
Jane Doe and John Roe
University of Somewhere
doi:10.1000/jpc.2019.01
Abstract
`

func TestExtractSample(t *testing.T) {
	frags := Extract(samplePage, DefaultOptions())

	want := []string{
		"JOURNAL OF PARALLEL COMPUTING",
		"Efficient Algorithms for Stream Processing",
		"at Scale",
		"Jane Doe and John Roe",
		"University of Somewhere",
		"doi:10.1000/jpc.2019.01",
		"Abstract",
	}
	got := Texts(frags)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Extract texts = %q, want %q", got, want)
	}

	for i, f := range frags {
		if f.Position != i {
			t.Errorf("fragment %d has Position %d", i, f.Position)
		}
		if f.LikelyTitle != (i == 1) {
			t.Errorf("fragment %d (%q) LikelyTitle = %v", i, f.Text, f.LikelyTitle)
		}
	}
	if frags[1].Line != 3 {
		t.Errorf("title line = %d, want 3", frags[1].Line)
	}
}

func TestExtractEmptyText(t *testing.T) {
	if frags := Extract("", DefaultOptions()); len(frags) != 0 {
		t.Errorf("expected no fragments, got %d", len(frags))
	}
	if frags := Extract("1\n\n  \n22\nab\n", DefaultOptions()); len(frags) != 0 {
		t.Errorf("expected degenerate lines to be skipped, got %q", Texts(frags))
	}
}

func TestExtractAllNoiseHasNoLikelyTitle(t *testing.T) {
	frags := Extract("COPYRIGHT 2001\nPREPRINT\nIN PRESS\n", DefaultOptions())
	if len(frags) != 3 {
		t.Fatalf("expected noise lines to be kept, got %d", len(frags))
	}
	for _, f := range frags {
		if f.LikelyTitle {
			t.Errorf("noise line %q marked as likely title", f.Text)
		}
	}
}

func TestExtractWindowStopsAtTopLines(t *testing.T) {
	// Survivors only begin after the window, so nothing is produced.
	var b strings.Builder
	for i := 0; i < DefaultTopLines; i++ {
		b.WriteString("\n")
	}
	b.WriteString("A Late Title\n")
	if frags := Extract(b.String(), DefaultOptions()); len(frags) != 0 {
		t.Errorf("lines past the window must be ignored, got %q", Texts(frags))
	}
}

func TestExtractCustomOptions(t *testing.T) {
	raw := "Alpha Line\nBeta Line\nGamma Line\nDelta Line\n"
	frags := Extract(raw, Options{TopLines: 3, MaxFragments: 2})
	if got := Texts(frags); strings.Join(got, "|") != "Alpha Line|Beta Line" {
		t.Errorf("got %q", got)
	}

	c, err := classifier.New(classifier.Rule{Pattern: "^Alpha", Meaning: "test"})
	if err != nil {
		t.Fatal(err)
	}
	frags = Extract(raw, Options{Classifier: c})
	if frags[0].LikelyTitle || !frags[1].LikelyTitle {
		t.Errorf("custom classifier not applied: %+v", frags[:2])
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\rb", []string{"a", "b"}},
		{"page one\fpage two", []string{"page one", "page two"}},
		{"a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.in)
		if fmt.Sprint(got) != fmt.Sprint(tt.want) || len(got) != len(tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type stubSource struct {
	text string
	err  error
}

func (s stubSource) Text(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func TestExtractDocument(t *testing.T) {
	frags, err := ExtractDocument(context.Background(), stubSource{text: samplePage}, "x.pdf", DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if IsFailure(frags) || len(frags) != 7 {
		t.Errorf("unexpected fragments: %q", Texts(frags))
	}
}

func TestExtractDocumentFailureYieldsSentinel(t *testing.T) {
	cause := errors.New("pdftotext crashed")
	frags, err := ExtractDocument(context.Background(), stubSource{err: cause}, "x.pdf", DefaultOptions())
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be returned, got %v", err)
	}
	if !IsFailure(frags) {
		t.Fatalf("expected failure sentinel, got %+v", frags)
	}
	if frags[0].Text != FailureText || frags[0].LikelyTitle {
		t.Errorf("unexpected sentinel %+v", frags[0])
	}
}

func TestIsFailure(t *testing.T) {
	if IsFailure(nil) {
		t.Error("nil is not a failure")
	}
	if IsFailure([]Fragment{{Text: FailureText}}) {
		t.Error("a plain fragment with the sentinel text is not a failure")
	}
}

func TestString(t *testing.T) {
	got := String([]Fragment{
		{Text: "JOURNAL X", Position: 0},
		{Text: "Real Title", Position: 1, LikelyTitle: true},
	})
	want := " 0   JOURNAL X\n 1 * Real Title\n"
	if got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

// genCleanLine generates lines that survive normalization and are never noise:
// lower-case words only, so no upper-case rule, year, doi or arXiv token can match.
func genCleanLine() gopter.Gen {
	return gen.SliceOfN(3, gen.SliceOfN(5, gen.AlphaLowerChar()).Map(func(r []rune) string {
		return string(r)
	})).Map(func(words []string) string {
		line := strings.Join(words, " ")
		if strings.Contains(line, "doi") || strings.Contains(line, "arxiv") {
			return "clean words here"
		}
		return line
	})
}

// Property: a document whose first 25 lines are all valid non-noise text yields exactly
// DefaultMaxFragments fragments, all from the scan window.
func TestExtractWindowProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("25 clean lines give 10 fragments from lines 0-19", prop.ForAll(
		func(lines []string) bool {
			frags := Extract(strings.Join(lines, "\n"), DefaultOptions())
			if len(frags) != DefaultMaxFragments {
				t.Logf("got %d fragments", len(frags))
				return false
			}
			for i, f := range frags {
				if f.Line < 0 || f.Line >= DefaultTopLines || f.Text != lines[f.Line] {
					t.Logf("fragment %d from line %d: %q", i, f.Line, f.Text)
					return false
				}
				if f.LikelyTitle != (i == 0) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(25, genCleanLine()),
	))

	properties.Property("extraction is a pure function of the text", prop.ForAll(
		func(lines []string) bool {
			raw := strings.Join(lines, "\n")
			return fmt.Sprint(Extract(raw, DefaultOptions())) == fmt.Sprint(Extract(raw, DefaultOptions()))
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.Property("fragments keep scan order and at most one likely title", prop.ForAll(
		func(lines []string) bool {
			frags := Extract(strings.Join(lines, "\n"), DefaultOptions())
			likely := 0
			for i, f := range frags {
				if f.LikelyTitle {
					likely++
				}
				if i > 0 && f.Line <= frags[i-1].Line {
					return false
				}
			}
			return likely <= 1 && len(frags) <= DefaultMaxFragments
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}
