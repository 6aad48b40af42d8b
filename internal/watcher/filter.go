package watcher

import (
	"path/filepath"
	"strings"

	"retitle/internal/scanner"
)

// DefaultIgnorePatterns returns the patterns of partial downloads and editor temp files.
func DefaultIgnorePatterns() []string {
	return []string{
		"*.tmp",
		"*.part",
		"*.download",
		"*.crdownload",
		"*.partial",
		".~*",
		".#*",
	}
}

// FileFilter decides which paths in a watched directory are documents to process.
type FileFilter struct {
	patterns []string
}

// NewFileFilter creates a FileFilter with the given ignore patterns.
// If patterns is nil or empty, default patterns are used.
func NewFileFilter(patterns []string) *FileFilter {
	if len(patterns) == 0 {
		patterns = DefaultIgnorePatterns()
	}
	return &FileFilter{patterns: patterns}
}

// ShouldIgnore reports whether the base name of path matches an ignore pattern.
// Patterns use filepath.Match syntax; a pattern starting with "." and holding no
// wildcard also matches as a case-insensitive suffix.
func (f *FileFilter) ShouldIgnore(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range f.patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
		if strings.HasPrefix(pattern, ".") && !strings.ContainsAny(pattern, "*?[") &&
			strings.HasSuffix(strings.ToLower(name), strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// Accept reports whether path is a PDF that no ignore pattern excludes.
func (f *FileFilter) Accept(path string) bool {
	return scanner.IsPDF(path) && !f.ShouldIgnore(path)
}

// Patterns returns a copy of the ignore patterns.
func (f *FileFilter) Patterns() []string {
	out := make([]string, len(f.patterns))
	copy(out, f.patterns)
	return out
}
