package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"retitle/internal/composer"
	"retitle/internal/pdftext"
)

// maxNameBytes is the filename limit of common filesystems.
const maxNameBytes = 255

// ValidationSeverity represents the severity of a validation issue.
type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "error"
	SeverityWarning ValidationSeverity = "warning"
)

// ConfigValidationError represents a single validation issue.
type ConfigValidationError struct {
	Field    string             // Config key with the issue, e.g. "extract.first_page"
	Message  string             // Human-readable description
	Severity ValidationSeverity // "error" or "warning"
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ConfigValidationError
	Warnings []ConfigValidationError
	Valid    bool // True if no errors (warnings OK)
}

func (r *ValidationResult) add(issues []ConfigValidationError) {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
}

// ValidateConfig checks the configuration and returns every finding.
func ValidateConfig(cfg *Configuration) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ConfigValidationError{},
		Warnings: []ConfigValidationError{},
	}
	result.add(ValidateExtract(cfg))
	result.add(ValidateCompose(cfg))
	result.add(ValidatePresent(cfg))
	result.add(ValidateWatch(cfg))
	result.Valid = len(result.Errors) == 0
	return result
}

func issue(field string, sev ValidationSeverity, format string, args ...interface{}) ConfigValidationError {
	return ConfigValidationError{Field: field, Message: fmt.Sprintf(format, args...), Severity: sev}
}

// ValidateExtract checks the [extract] section.
func ValidateExtract(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError
	e := cfg.Extract

	switch strings.ToLower(e.Backend) {
	case pdftext.BackendPoppler, pdftext.BackendNative:
	default:
		issues = append(issues, issue("extract.backend", SeverityError,
			"invalid backend %q. Must be %q or %q", e.Backend, pdftext.BackendPoppler, pdftext.BackendNative))
	}
	if e.FirstPage < 1 {
		issues = append(issues, issue("extract.first_page", SeverityError, "must be at least 1"))
	}
	if e.LastPage < e.FirstPage {
		issues = append(issues, issue("extract.last_page", SeverityError, "must not be before first_page (%d)", e.FirstPage))
	} else if e.LastPage-e.FirstPage >= 5 {
		issues = append(issues, issue("extract.last_page", SeverityWarning,
			"extracting %d pages per document is slow; titles are on the first page", e.LastPage-e.FirstPage+1))
	}
	if e.TopLines < 1 {
		issues = append(issues, issue("extract.top_lines", SeverityError, "must be a positive integer"))
	}
	if e.MaxFragments < 1 {
		issues = append(issues, issue("extract.max_fragments", SeverityError, "must be a positive integer"))
	} else if e.MaxFragments > 10 {
		issues = append(issues, issue("extract.max_fragments", SeverityWarning,
			"only the first 10 fragments can be toggled with a single digit"))
	}

	for i, r := range e.ExtraNoise {
		field := fmt.Sprintf("extract.extra_noise[%d]", i)
		if r.Pattern == "" {
			issues = append(issues, issue(field+".pattern", SeverityError, "cannot be empty"))
			continue
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			issues = append(issues, issue(field+".pattern", SeverityError, "invalid regular expression: %v", err))
		}
	}
	return issues
}

// ValidateCompose checks the [compose] section.
func ValidateCompose(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError
	c := cfg.Compose

	if _, err := composer.ParseCaseMode(c.Case); err != nil {
		issues = append(issues, issue("compose.case", SeverityError, "%v", err))
	}
	if _, err := composer.ParseSanitizeMode(c.Sanitize); err != nil {
		issues = append(issues, issue("compose.sanitize", SeverityError, "%v", err))
	}
	if c.MaxLength < 1 {
		issues = append(issues, issue("compose.max_length", SeverityError, "must be a positive integer"))
	} else if c.MaxLength+len(c.Extension) > maxNameBytes {
		issues = append(issues, issue("compose.max_length", SeverityWarning,
			"names longer than %d bytes are rejected by most filesystems", maxNameBytes))
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		issues = append(issues, issue("compose.extension", SeverityError, "cannot contain a path separator"))
	} else if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		issues = append(issues, issue("compose.extension", SeverityWarning, "%q does not start with a dot", c.Extension))
	}
	return issues
}

// ValidatePresent checks the [present] section.
func ValidatePresent(cfg *Configuration) []ConfigValidationError {
	switch cfg.Present.Mode {
	case ModeTUI, ModePrompt, ModeAuto:
		return nil
	}
	return []ConfigValidationError{issue("present.mode", SeverityError,
		"invalid mode %q. Must be %q, %q, or %q", cfg.Present.Mode, ModeTUI, ModePrompt, ModeAuto)}
}

// ValidateWatch checks the [watch] section.
func ValidateWatch(cfg *Configuration) []ConfigValidationError {
	var issues []ConfigValidationError
	w := cfg.Watch

	if w.DebounceSeconds < 0 {
		issues = append(issues, issue("watch.debounce_seconds", SeverityError, "must be a non-negative integer"))
	}
	if w.StableThresholdMs < 0 {
		issues = append(issues, issue("watch.stable_threshold_ms", SeverityError, "must be a non-negative integer"))
	}
	for i, p := range w.IgnorePatterns {
		if _, err := filepath.Match(p, ""); err != nil {
			issues = append(issues, issue(fmt.Sprintf("watch.ignore_patterns[%d]", i), SeverityError, "invalid glob %q", p))
		}
	}
	return issues
}
