// Package organizer performs the guarded rename of a document to its new filename.
package organizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RenameErrorType represents the type of rename error.
type RenameErrorType string

const (
	// InvalidDestination indicates the new name is empty, contains a path separator,
	// or equals the current name.
	InvalidDestination RenameErrorType = "INVALID_DESTINATION"
	// SourceNotFound indicates the source file does not exist.
	SourceNotFound RenameErrorType = "SOURCE_NOT_FOUND"
	// DestinationExists indicates a file already exists at the destination.
	DestinationExists RenameErrorType = "DESTINATION_EXISTS"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied RenameErrorType = "PERMISSION_DENIED"
)

// RenameError represents an error that occurred during a rename.
type RenameError struct {
	Type RenameErrorType
	Path string
	Err  error
}

func (e *RenameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *RenameError) Unwrap() error {
	return e.Err
}

// RenameResult represents a planned or completed rename.
type RenameResult struct {
	SourcePath      string
	DestinationPath string
}

// IsConflict reports whether err is a DestinationExists refusal.
func IsConflict(err error) bool {
	var re *RenameError
	return errors.As(err, &re) && re.Type == DestinationExists
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Plan validates renaming source to filename within source's directory without touching
// the filesystem.
func Plan(source, filename string) (*RenameResult, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return nil, &RenameError{Type: InvalidDestination, Path: filename}
	}
	if filename == filepath.Base(source) {
		return nil, &RenameError{Type: InvalidDestination, Path: filename, Err: errors.New("name unchanged")}
	}

	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return nil, &RenameError{Type: SourceNotFound, Path: source, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &RenameError{Type: PermissionDenied, Path: source, Err: err}
		}
		return nil, fmt.Errorf("stat %s: %w", source, err)
	}

	dest := filepath.Join(filepath.Dir(source), filename)
	if FileExists(dest) {
		return nil, &RenameError{Type: DestinationExists, Path: dest}
	}

	return &RenameResult{SourcePath: source, DestinationPath: dest}, nil
}

// Rename moves source to filename in the same directory. It refuses when the
// destination already exists and leaves both files untouched.
func Rename(source, filename string) (*RenameResult, error) {
	result, err := Plan(source, filename)
	if err != nil {
		return nil, err
	}

	if err := os.Rename(result.SourcePath, result.DestinationPath); err != nil {
		if os.IsPermission(err) {
			return nil, &RenameError{Type: PermissionDenied, Path: source, Err: err}
		}
		if os.IsNotExist(err) {
			return nil, &RenameError{Type: SourceNotFound, Path: source, Err: err}
		}
		return nil, fmt.Errorf("rename %s: %w", source, err)
	}

	return result, nil
}
