// Package prompt implements a line-oriented presenter for terminals without a full-screen
// UI, and for scripted input.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"retitle/internal/composer"
	"retitle/internal/selection"
)

// IsInteractive returns true if stdin is a terminal.
// Piped or redirected input makes it false.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Prompter reads commands line by line and edits a selection.State until the operator
// confirms, cancels, or aborts.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
	opts   composer.Options
}

// maxLineBytes caps a command line; the rest of a longer line is discarded.
const maxLineBytes = 4096

// New creates a Prompter reading from reader and writing to writer.
// Use os.Stdin and os.Stdout for normal operation, or buffers for testing.
func New(reader io.Reader, writer io.Writer, opts composer.Options) *Prompter {
	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
		opts:   opts,
	}
}

const help = `Commands:
  <n> [<n>...]   toggle fragment n
  c [mode]       case: original, upper, lower, title (no mode cycles)
  s [mode]       sanitize: none, problematic, ascii (no mode cycles)
  e [name]       type the filename by hand (no name clears it)
  y              rename
  n              skip this file
  q              quit
`

// Present runs the command loop for doc. End of input aborts.
func (p *Prompter) Present(ctx context.Context, doc selection.Document) (selection.Decision, error) {
	state := selection.New(doc.Fragments, p.opts)
	fmt.Fprintf(p.writer, "\n%s\n", filepath.Base(doc.Path))
	p.render(state)

	for {
		if err := ctx.Err(); err != nil {
			return selection.Decision{Outcome: selection.Abort}, err
		}
		fmt.Fprint(p.writer, "> ")

		line, err := p.readLine()
		if err == io.EOF {
			return selection.Decision{Outcome: selection.Abort}, nil
		}
		if err != nil {
			return selection.Decision{Outcome: selection.Abort}, fmt.Errorf("error reading input: %w", err)
		}

		decision, done := p.apply(state, strings.TrimSpace(line))
		if done {
			return decision, nil
		}
	}
}

// readLine returns the next input line. A final line without a terminator is still
// returned; io.EOF is reported only once nothing is left.
func (p *Prompter) readLine() (string, error) {
	var line []byte
	for {
		chunk, err := p.reader.ReadSlice('\n')
		if room := maxLineBytes - len(line); room > 0 {
			line = append(line, chunk[:min(len(chunk), room)]...)
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(line) > 0:
			return string(line), nil
		case err != nil:
			return "", err
		}
		return string(line), nil
	}
}

// apply runs one command line against state. It reports true when the line ends the
// prompt for this document.
func (p *Prompter) apply(state *selection.State, line string) (selection.Decision, bool) {
	if line == "" {
		p.render(state)
		return selection.Decision{}, false
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "y", "yes":
		return state.Decide(), true
	case "n", "no":
		return selection.Decision{Outcome: selection.Cancel}, true
	case "q", "quit":
		return selection.Decision{Outcome: selection.Abort}, true
	case "?", "h", "help":
		fmt.Fprint(p.writer, help)
		return selection.Decision{}, false
	case "c", "case":
		if arg == "" {
			state.CycleCase()
		} else if m, err := composer.ParseCaseMode(arg); err == nil {
			state.SetCase(m)
		} else {
			fmt.Fprintf(p.writer, "%v\n", err)
			return selection.Decision{}, false
		}
	case "s", "sanitize":
		if arg == "" {
			state.CycleSanitize()
		} else if m, err := composer.ParseSanitizeMode(arg); err == nil {
			state.SetSanitize(m)
		} else {
			fmt.Fprintf(p.writer, "%v\n", err)
			return selection.Decision{}, false
		}
	case "e", "edit":
		state.SetManual(arg)
	default:
		if !p.toggleAll(state, strings.Fields(line)) {
			fmt.Fprintf(p.writer, "Invalid input '%s', type ? for help.\n", line)
			return selection.Decision{}, false
		}
	}
	p.render(state)
	return selection.Decision{}, false
}

func (p *Prompter) toggleAll(state *selection.State, fields []string) bool {
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n >= len(state.Fragments()) {
			return false
		}
		indices = append(indices, n)
	}
	for _, n := range indices {
		state.Toggle(n)
	}
	return true
}

func (p *Prompter) render(state *selection.State) {
	for i, f := range state.Fragments() {
		mark := "[ ]"
		if state.IsSelected(i) {
			mark = "[x]"
		}
		hint := ""
		if f.LikelyTitle {
			hint = "  (likely title)"
		}
		fmt.Fprintf(p.writer, "  %s %2d  %s%s\n", mark, i, f.Text, hint)
	}
	opts := state.Options()
	fmt.Fprintf(p.writer, "Case: %s   Sanitize: %s\n", opts.Case.Label(), opts.Sanitize.Label())
	preview := state.Preview()
	if preview == "" {
		preview = "(nothing selected)"
	}
	fmt.Fprintf(p.writer, "New name: %s\n", preview)
	fmt.Fprintf(p.writer, "Rename? (y)es, (n)o, (q)uit, ? for help\n")
}
