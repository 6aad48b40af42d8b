package prompt

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"retitle/internal/composer"
	"retitle/internal/fragment"
	"retitle/internal/selection"
)

func testDoc() selection.Document {
	return selection.Document{
		Path: "/papers/scan0001.pdf",
		Fragments: []fragment.Fragment{
			{Text: "The rise of", Position: 0, LikelyTitle: true},
			{Text: "parallel systems", Position: 1},
			{Text: "A. Author", Position: 2},
		},
	}
}

func present(t *testing.T, input string) (selection.Decision, string) {
	t.Helper()
	output := &bytes.Buffer{}
	p := New(strings.NewReader(input), output, composer.DefaultOptions())
	d, err := p.Present(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d, output.String()
}

func TestPrompterConfirmDefault(t *testing.T) {
	d, out := present(t, "y\n")

	if d.Outcome != selection.Confirm {
		t.Fatalf("expected Confirm, got %v", d.Outcome)
	}
	if d.Filename != "The rise of.pdf" {
		t.Errorf("expected likely-title name, got %q", d.Filename)
	}
	if !strings.Contains(out, "scan0001.pdf") {
		t.Errorf("output should name the file, got: %s", out)
	}
	if !strings.Contains(out, "[x]  0  The rise of") {
		t.Errorf("likely title should be pre-selected, got: %s", out)
	}
}

func TestPrompterToggleAndCase(t *testing.T) {
	d, _ := present(t, "1\nc title\ny\n")

	if d.Outcome != selection.Confirm {
		t.Fatalf("expected Confirm, got %v", d.Outcome)
	}
	if d.Filename != "The Rise of Parallel Systems.pdf" {
		t.Errorf("got %q", d.Filename)
	}
}

func TestPrompterToggleSeveral(t *testing.T) {
	d, _ := present(t, "0 2\ny\n")
	if d.Filename != "A. Author.pdf" {
		t.Errorf("got %q", d.Filename)
	}
}

func TestPrompterSanitize(t *testing.T) {
	d, _ := present(t, "s ascii\ny\n")
	if d.Filename != "The_rise_of.pdf" {
		t.Errorf("got %q", d.Filename)
	}
}

func TestPrompterCycle(t *testing.T) {
	d, _ := present(t, "c\ny\n")
	if d.Filename != "THE RISE OF.pdf" {
		t.Errorf("got %q", d.Filename)
	}
}

func TestPrompterManualName(t *testing.T) {
	d, _ := present(t, "e Parallel Systems Survey\ny\n")
	if d.Filename != "Parallel Systems Survey.pdf" {
		t.Errorf("got %q", d.Filename)
	}
}

func TestPrompterCancel(t *testing.T) {
	d, _ := present(t, "n\n")
	if d.Outcome != selection.Cancel {
		t.Errorf("expected Cancel, got %v", d.Outcome)
	}
}

func TestPrompterQuit(t *testing.T) {
	d, _ := present(t, "q\n")
	if d.Outcome != selection.Abort {
		t.Errorf("expected Abort, got %v", d.Outcome)
	}
}

func TestPrompterEOF(t *testing.T) {
	d, _ := present(t, "")
	if d.Outcome != selection.Abort {
		t.Errorf("EOF should abort, got %v", d.Outcome)
	}
}

func TestPrompterEmptySelectionCancels(t *testing.T) {
	d, out := present(t, "0\ny\n")
	if d.Outcome != selection.Cancel {
		t.Errorf("expected Cancel for empty selection, got %v", d.Outcome)
	}
	if !strings.Contains(out, "(nothing selected)") {
		t.Errorf("output should show empty preview, got: %s", out)
	}
}

func TestPrompterInvalidInput(t *testing.T) {
	d, out := present(t, "banana\n9\nc shouty\ny\n")

	if !strings.Contains(out, "Invalid input 'banana'") {
		t.Errorf("expected invalid input message, got: %s", out)
	}
	if !strings.Contains(out, "Invalid input '9'") {
		t.Errorf("out-of-range index should be rejected, got: %s", out)
	}
	if !strings.Contains(out, "unknown case mode") {
		t.Errorf("bad mode should be reported, got: %s", out)
	}
	if d.Filename != "The rise of.pdf" {
		t.Errorf("invalid commands should not change the name, got %q", d.Filename)
	}
}

func TestPrompterHelp(t *testing.T) {
	_, out := present(t, "?\nn\n")
	if !strings.Contains(out, "Commands:") {
		t.Errorf("expected help text, got: %s", out)
	}
}

func TestPrompterSharesInputAcrossDocuments(t *testing.T) {
	output := &bytes.Buffer{}
	p := New(strings.NewReader("n\ny\n"), output, composer.DefaultOptions())

	first, err := p.Present(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Present(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Outcome != selection.Cancel || second.Outcome != selection.Confirm {
		t.Errorf("expected cancel then confirm, got %v then %v", first.Outcome, second.Outcome)
	}
}

func TestPrompterFailureSentinel(t *testing.T) {
	output := &bytes.Buffer{}
	p := New(strings.NewReader("0\ny\ne Hand Typed\ny\n"), output, composer.DefaultOptions())

	d, err := p.Present(context.Background(), selection.Document{Path: "bad.pdf", Fragments: fragment.Failure()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != selection.Cancel {
		t.Errorf("confirming the sentinel should cancel, got %v %q", d.Outcome, d.Filename)
	}
	if !strings.Contains(output.String(), fragment.FailureText) {
		t.Errorf("sentinel should be shown, got: %s", output.String())
	}

	d, err = p.Present(context.Background(), selection.Document{Path: "bad.pdf", Fragments: fragment.Failure()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != selection.Confirm || d.Filename != "Hand Typed.pdf" {
		t.Errorf("expected manual name, got %v %q", d.Outcome, d.Filename)
	}
}

func TestPrompterCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(strings.NewReader("y\n"), &bytes.Buffer{}, composer.DefaultOptions())
	d, err := p.Present(ctx, testDoc())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if d.Outcome != selection.Abort {
		t.Errorf("expected Abort, got %v", d.Outcome)
	}
}

func TestPrompterOverlongLineKeepsPrompting(t *testing.T) {
	input := strings.Repeat("x", 200*1024) + "\ny\n"
	d, out := present(t, input)

	if d.Outcome != selection.Confirm || d.Filename != "The rise of.pdf" {
		t.Errorf("expected confirm after an overlong line, got %+v", d)
	}
	if !strings.Contains(out, "Invalid input") {
		t.Errorf("overlong line should be rejected as invalid input, got %d bytes of output", len(out))
	}
}

func TestPrompterFinalLineWithoutNewline(t *testing.T) {
	d, _ := present(t, "n")
	if d.Outcome != selection.Cancel {
		t.Errorf("expected Cancel, got %v", d.Outcome)
	}
}
