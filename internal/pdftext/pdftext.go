// Package pdftext extracts raw text from the leading pages of a PDF.
//
// Two backends are provided: Poppler runs the pdftotext tool as a child process, and
// Native reads the file in-process with rsc.io/pdf. Both satisfy fragment.TextSource.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"retitle/internal/fragment"
)

// ExtractErrorType represents the type of extraction error.
type ExtractErrorType string

const (
	// ToolMissing indicates the extraction executable is not installed.
	ToolMissing ExtractErrorType = "TOOL_MISSING"
	// ToolFailed indicates the extraction process exited with an error.
	ToolFailed ExtractErrorType = "TOOL_FAILED"
	// Unreadable indicates the document could not be parsed.
	Unreadable ExtractErrorType = "UNREADABLE"
)

// ErrToolNotFound is wrapped by errors for a missing pdftotext executable.
var ErrToolNotFound = errors.New("pdftotext not found in PATH; install poppler-utils (apt install poppler-utils, brew install poppler)")

// ExtractError represents a failed text extraction.
type ExtractError struct {
	Type ExtractErrorType
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Backend names accepted by New.
const (
	BackendPoppler = "pdftotext"
	BackendNative  = "native"
)

// PageRange is an inclusive 1-based range of pages.
type PageRange struct {
	First int
	Last  int
}

// DefaultPageRange covers the first two pages, where titles live.
func DefaultPageRange() PageRange {
	return PageRange{First: 1, Last: 2}
}

func (r PageRange) normalized() PageRange {
	if r.First < 1 {
		r.First = 1
	}
	if r.Last < r.First {
		r.Last = r.First
	}
	return r
}

// New returns the text source for backend ("pdftotext" or "native").
// tool is the pdftotext executable and is ignored by the native backend.
func New(backend, tool string, pages PageRange) (fragment.TextSource, error) {
	switch strings.ToLower(backend) {
	case "", BackendPoppler:
		p := NewPoppler(pages)
		if tool != "" {
			p.Tool = tool
		}
		return p, nil
	case BackendNative:
		return NewNative(pages), nil
	default:
		return nil, fmt.Errorf("unknown extraction backend %q (want %s or %s)", backend, BackendPoppler, BackendNative)
	}
}
