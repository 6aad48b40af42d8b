package composer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"retitle/internal/fragment"
)

// ProblematicChars are deleted by SanitizeProblematic.
const ProblematicChars = "!:;?'\"*/\\\t\n."

// minorWords stay lower case in title case unless they start the filename.
var minorWords = []string{"and", "a", "of", "to", "for", "the", "in", "with", "an", "by", "on"}

var minorWordRe = regexp.MustCompile(`(?i)\b(` + strings.Join(minorWords, "|") + `)\b`)

// Compose builds the filename for the fragments at the selected indices.
//
// Fragments are used in extraction order whatever the order of selected; duplicate and
// out-of-range indices are ignored. The joined text is sanitized, case-folded, truncated
// to opts.MaxLength runes and given opts.Extension. An empty selection, or one whose text
// sanitizes away entirely, yields "".
func Compose(frags []fragment.Fragment, selected []int, opts Options) string {
	stem := FoldCase(Sanitize(Assemble(frags, selected), opts.Sanitize), opts.Case)
	if stem == "" {
		return ""
	}
	return Truncate(stem, opts.MaxLength) + opts.Extension
}

// Assemble joins the whitespace-separated tokens of the selected fragments with single
// spaces, in ascending index order.
func Assemble(frags []fragment.Fragment, selected []int) string {
	var tokens []string
	for _, idx := range SortedIndices(selected, len(frags)) {
		tokens = append(tokens, strings.Fields(frags[idx].Text)...)
	}
	return strings.Join(tokens, " ")
}

// SortedIndices returns the distinct indices of selected that fall in [0, n), ascending.
func SortedIndices(selected []int, n int) []int {
	seen := make(map[int]bool, len(selected))
	out := make([]int, 0, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Sanitize applies mode to s.
func Sanitize(s string, mode SanitizeMode) string {
	switch mode {
	case SanitizeProblematic:
		return strings.Map(func(r rune) rune {
			if strings.ContainsRune(ProblematicChars, r) {
				return -1
			}
			return r
		}, s)
	case SanitizeASCII:
		s = strings.ReplaceAll(s, " ", "_")
		return strings.Map(func(r rune) rune {
			if isASCIISafe(r) {
				return r
			}
			return -1
		}, s)
	default:
		return s
	}
}

func isASCIISafe(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '-'
}

// FoldCase applies mode to s.
func FoldCase(s string, mode CaseMode) string {
	switch mode {
	case CaseUpper:
		return strings.ToUpper(s)
	case CaseLower:
		return strings.ToLower(s)
	case CaseTitle:
		return TitleCase(s)
	default:
		return s
	}
}

// TitleCase capitalizes every word, lowers the minor words, then capitalizes the first
// character of the result so a leading minor word is still capitalized.
//
// A word is a run of letters: its first letter is upper-cased and the rest lower-cased,
// so "don't" becomes "Don'T" and "IEEE" becomes "Ieee".
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	s = capitalizeWords(s)
	s = minorWordRe.ReplaceAllStringFunc(s, strings.ToLower)

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func capitalizeWords(s string) string {
	runes := []rune(s)
	inWord := false
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if inWord {
				runes[i] = unicode.ToLower(r)
			} else {
				runes[i] = unicode.ToUpper(r)
			}
			inWord = true
		} else {
			inWord = false
		}
	}
	return string(runes)
}

// Truncate keeps at most max runes of s; max <= 0 means DefaultMaxLength.
// It may cut in the middle of a word.
func Truncate(s string, max int) string {
	if max <= 0 {
		max = DefaultMaxLength
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
