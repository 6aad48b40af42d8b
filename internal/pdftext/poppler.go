package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultTool is the pdftotext executable looked up in PATH.
const DefaultTool = "pdftotext"

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// Run executes name with args. Standard error is attached to the returned error.
func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%w: %s", err, msg)
		}
		return stdout.Bytes(), err
	}
	return stdout.Bytes(), nil
}

// Poppler extracts text by running pdftotext in raw mode.
type Poppler struct {
	Tool   string
	Pages  PageRange
	runner CommandRunner
}

// NewPoppler returns a Poppler backend that runs the pdftotext found in PATH.
func NewPoppler(pages PageRange) *Poppler {
	return NewPopplerWithRunner(pages, execRunner{})
}

// NewPopplerWithRunner injects the command runner, for tests.
func NewPopplerWithRunner(pages PageRange, runner CommandRunner) *Poppler {
	return &Poppler{
		Tool:   DefaultTool,
		Pages:  pages.normalized(),
		runner: runner,
	}
}

// Args returns the pdftotext arguments for path; "-" sends the text to stdout.
func (p *Poppler) Args(path string) []string {
	pages := p.Pages.normalized()
	return []string{
		"-raw",
		"-f", strconv.Itoa(pages.First),
		"-l", strconv.Itoa(pages.Last),
		path,
		"-",
	}
}

// Text runs pdftotext on path and returns its output.
func (p *Poppler) Text(ctx context.Context, path string) (string, error) {
	out, err := p.runner.Run(ctx, p.Tool, p.Args(path)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", &ExtractError{Type: ToolMissing, Path: path, Err: ErrToolNotFound}
		}
		return "", &ExtractError{Type: ToolFailed, Path: path, Err: fmt.Errorf("%s failed: %w", p.Tool, err)}
	}
	return string(out), nil
}

// Check verifies the pdftotext executable can be found.
func (p *Poppler) Check() (string, error) {
	path, err := exec.LookPath(p.Tool)
	if err != nil {
		return "", fmt.Errorf("%w (looked for %q)", ErrToolNotFound, p.Tool)
	}
	return path, nil
}
