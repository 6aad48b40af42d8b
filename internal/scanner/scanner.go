// Package scanner expands command-line arguments into the ordered list of PDFs to process.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// PathNotFound indicates the argument does not exist.
	PathNotFound ScanErrorType = "PATH_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the path.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
	// NotRegular indicates the argument is neither a regular file nor a directory.
	NotRegular ScanErrorType = "NOT_REGULAR"
)

// ScanError represents an error that occurred while expanding one argument.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ScanOptions configures directory expansion.
type ScanOptions struct {
	Recursive      bool // Descend into subdirectories
	FollowSymlinks bool // Include symlinked files and directories found while walking
}

// DefaultScanOptions returns the default scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{}
}

// FileEntry represents a document found during scanning.
type FileEntry struct {
	Name     string // Filename only
	FullPath string // Absolute path
}

// IsPDF reports whether name has a .pdf extension, in any letter case.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Expand turns args into documents, in argument order. A file argument is taken as is;
// a directory argument contributes its PDFs sorted by name. Arguments that cannot be
// used are reported in errs and skipped. A path named twice is returned once.
func Expand(args []string, opts ScanOptions) (entries []FileEntry, errs []error) {
	seen := make(map[string]bool)
	add := func(e FileEntry) {
		if !seen[e.FullPath] {
			seen[e.FullPath] = true
			entries = append(entries, e)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			errs = append(errs, statError(arg, err))
			continue
		}

		switch {
		case info.IsDir():
			found, err := ScanWithOptions(arg, opts)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			for _, e := range found {
				add(e)
			}
		case info.Mode().IsRegular():
			add(entryFor(arg))
		default:
			errs = append(errs, &ScanError{Type: NotRegular, Path: arg})
		}
	}
	return entries, errs
}

// Scan lists the PDFs directly inside directory.
func Scan(directory string) ([]FileEntry, error) {
	return ScanWithOptions(directory, DefaultScanOptions())
}

// ScanWithOptions lists the PDFs in directory, sorted by path.
func ScanWithOptions(directory string, opts ScanOptions) ([]FileEntry, error) {
	info, err := os.Stat(directory)
	if err != nil {
		return nil, statError(directory, err)
	}
	if !info.IsDir() {
		return nil, &ScanError{
			Type: PathNotFound,
			Path: directory,
			Err:  errors.New("path is not a directory"),
		}
	}

	files, err := scanDirectory(directory, opts)
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].FullPath < files[j].FullPath })
	return files, nil
}

func scanDirectory(directory string, opts ScanOptions) ([]FileEntry, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: directory, Err: err}
		}
		return nil, err
	}

	var files []FileEntry
	for _, entry := range entries {
		fullPath := filepath.Join(directory, entry.Name())

		info, err := os.Lstat(fullPath)
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if !opts.FollowSymlinks {
				continue
			}
			if info, err = os.Stat(fullPath); err != nil {
				continue // broken link
			}
		}

		if info.IsDir() {
			if opts.Recursive {
				sub, err := scanDirectory(fullPath, opts)
				if err != nil {
					return nil, err
				}
				files = append(files, sub...)
			}
			continue
		}

		if info.Mode().IsRegular() && IsPDF(entry.Name()) {
			files = append(files, entryFor(fullPath))
		}
	}
	return files, nil
}

func entryFor(path string) FileEntry {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return FileEntry{Name: filepath.Base(path), FullPath: abs}
}

func statError(path string, err error) error {
	if os.IsNotExist(err) {
		return &ScanError{Type: PathNotFound, Path: path, Err: err}
	}
	if os.IsPermission(err) {
		return &ScanError{Type: PermissionDenied, Path: path, Err: err}
	}
	return err
}
