package orchestrator

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome recorded for one document.
type Status string

const (
	// Renamed means the file now has its new name.
	Renamed Status = "RENAMED"
	// Planned means a dry run validated the rename without performing it.
	Planned Status = "PLANNED"
	// Skipped means the operator cancelled or the name was empty or unchanged.
	Skipped Status = "SKIPPED"
	// NoFragments means nothing in the document looked like a title.
	NoFragments Status = "NO_FRAGMENTS"
	// Missing means the file was gone before it could be read.
	Missing Status = "MISSING"
	// Conflict means a file with the chosen name already exists.
	Conflict Status = "CONFLICT"
	// Failed means the rename was attempted and refused or errored.
	Failed Status = "FAILED"
)

// Result is the outcome of processing a single document.
type Result struct {
	SourcePath      string
	DestinationPath string
	Status          Status
	Error           error
}

// Summary collects the results of one run.
type Summary struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Total    int // documents queued; unknown (0) in watch mode
	Aborted  bool
	Results  []Result
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
}

// Count returns how many results have status st.
func (s *Summary) Count(st Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == st {
			n++
		}
	}
	return n
}

// HasErrors returns true if any rename failed or conflicted.
func (s *Summary) HasErrors() bool {
	return s.Count(Failed) > 0 || s.Count(Conflict) > 0
}

// ExitCode is 1 when HasErrors, else 0. An abort alone is not an error.
func (s *Summary) ExitCode() int {
	if s.HasErrors() {
		return 1
	}
	return 0
}

// PrintSummary returns a one-line summary of the run.
func (s *Summary) PrintSummary() string {
	parts := []string{fmt.Sprintf("Processed %d files", len(s.Results))}
	if n := s.Count(Renamed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d renamed", n))
	}
	if n := s.Count(Planned); n > 0 {
		parts = append(parts, fmt.Sprintf("%d would be renamed", n))
	}
	if n := s.Count(Skipped) + s.Count(NoFragments) + s.Count(Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	if n := s.Count(Conflict); n > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts", n))
	}
	if n := s.Count(Failed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", n))
	}
	line := strings.Join(parts, ", ")
	if s.Aborted {
		line += " (aborted)"
	}
	return line
}
