// Package composer builds a filename from selected fragments under a sanitize and case policy.
//
// Compose is a pure function: presenters call it after every selection or option change
// and replace the previous result wholesale.
package composer

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxLength is the longest filename stem before the extension is appended.
	DefaultMaxLength = 150
	// DefaultExtension is appended to every composed filename.
	DefaultExtension = ".pdf"
)

// CaseMode selects the letter-casing of the composed filename.
type CaseMode int

const (
	CaseOriginal CaseMode = iota
	CaseUpper
	CaseLower
	CaseTitle
)

var caseNames = []string{"original", "upper", "lower", "title"}

// CaseModes lists every case mode in cycling order.
var CaseModes = []CaseMode{CaseOriginal, CaseUpper, CaseLower, CaseTitle}

func (m CaseMode) String() string {
	if int(m) < 0 || int(m) >= len(caseNames) {
		return fmt.Sprintf("CaseMode(%d)", int(m))
	}
	return caseNames[m]
}

// Label is the human-facing name shown by presenters.
func (m CaseMode) Label() string {
	switch m {
	case CaseUpper:
		return "UPPER"
	case CaseLower:
		return "lower"
	case CaseTitle:
		return "Title"
	default:
		return "Original"
	}
}

// Next returns the following mode, wrapping around.
func (m CaseMode) Next() CaseMode {
	return CaseModes[(int(m)+1)%len(CaseModes)]
}

// ParseCaseMode accepts "original", "upper", "lower" or "title" in any letter case.
func ParseCaseMode(s string) (CaseMode, error) {
	for i, name := range caseNames {
		if strings.EqualFold(s, name) {
			return CaseMode(i), nil
		}
	}
	return CaseOriginal, fmt.Errorf("unknown case mode %q (want one of %s)", s, strings.Join(caseNames, ", "))
}

// SanitizeMode selects which characters survive in the composed filename.
type SanitizeMode int

const (
	SanitizeNone SanitizeMode = iota
	SanitizeProblematic
	SanitizeASCII
)

var sanitizeNames = []string{"none", "problematic", "ascii"}

// SanitizeModes lists every sanitize mode in cycling order.
var SanitizeModes = []SanitizeMode{SanitizeNone, SanitizeProblematic, SanitizeASCII}

func (m SanitizeMode) String() string {
	if int(m) < 0 || int(m) >= len(sanitizeNames) {
		return fmt.Sprintf("SanitizeMode(%d)", int(m))
	}
	return sanitizeNames[m]
}

// Label is the human-facing name shown by presenters.
func (m SanitizeMode) Label() string {
	switch m {
	case SanitizeProblematic:
		return "Remove problematic chars"
	case SanitizeASCII:
		return "Use only alphanumerics plus - and _"
	default:
		return "No change"
	}
}

// Next returns the following mode, wrapping around.
func (m SanitizeMode) Next() SanitizeMode {
	return SanitizeModes[(int(m)+1)%len(SanitizeModes)]
}

// ParseSanitizeMode accepts "none", "problematic" or "ascii" in any letter case.
func ParseSanitizeMode(s string) (SanitizeMode, error) {
	for i, name := range sanitizeNames {
		if strings.EqualFold(s, name) {
			return SanitizeMode(i), nil
		}
	}
	return SanitizeNone, fmt.Errorf("unknown sanitize mode %q (want one of %s)", s, strings.Join(sanitizeNames, ", "))
}

// Options controls how selected fragments become a filename.
type Options struct {
	Case      CaseMode
	Sanitize  SanitizeMode
	MaxLength int    // runes kept before Extension; <= 0 means DefaultMaxLength
	Extension string // appended verbatim
}

// DefaultOptions keeps the original text and case, truncates at 150 and appends ".pdf".
func DefaultOptions() Options {
	return Options{
		Case:      CaseOriginal,
		Sanitize:  SanitizeNone,
		MaxLength: DefaultMaxLength,
		Extension: DefaultExtension,
	}
}
