// Package config loads, validates and saves the retitle TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"retitle/internal/classifier"
	"retitle/internal/composer"
	"retitle/internal/fragment"
	"retitle/internal/pdftext"
	"retitle/internal/watcher"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidTOML     ConfigErrorType = "INVALID_TOML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidTOML:
		return fmt.Sprintf("invalid TOML in configuration file %s: %s", e.Path, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Presentation modes.
const (
	ModeTUI    = "tui"
	ModePrompt = "prompt"
	ModeAuto   = "auto"
)

// NoiseRule is an extra boilerplate pattern appended to the built-in table.
type NoiseRule struct {
	Pattern string `toml:"pattern"`
	Meaning string `toml:"meaning"`
}

// ExtractConfig controls text extraction and fragment scanning.
type ExtractConfig struct {
	Backend      string      `toml:"backend"`
	Tool         string      `toml:"tool"`
	FirstPage    int         `toml:"first_page"`
	LastPage     int         `toml:"last_page"`
	TopLines     int         `toml:"top_lines"`
	MaxFragments int         `toml:"max_fragments"`
	ExtraNoise   []NoiseRule `toml:"extra_noise"`
}

// ComposeConfig holds the default composition options.
type ComposeConfig struct {
	Case      string `toml:"case"`
	Sanitize  string `toml:"sanitize"`
	MaxLength int    `toml:"max_length"`
	Extension string `toml:"extension"`
}

// PresentConfig selects the presentation surface.
type PresentConfig struct {
	Mode string `toml:"mode"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	DebounceSeconds   int      `toml:"debounce_seconds"`
	StableThresholdMs int      `toml:"stable_threshold_ms"`
	IgnorePatterns    []string `toml:"ignore_patterns"`
	Recursive         bool     `toml:"recursive"`
}

// Configuration holds all settings for retitle.
type Configuration struct {
	Extract ExtractConfig `toml:"extract"`
	Compose ComposeConfig `toml:"compose"`
	Present PresentConfig `toml:"present"`
	Watch   WatchConfig   `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Configuration {
	pages := pdftext.DefaultPageRange()
	opts := composer.DefaultOptions()
	return &Configuration{
		Extract: ExtractConfig{
			Backend:      pdftext.BackendPoppler,
			Tool:         pdftext.DefaultTool,
			FirstPage:    pages.First,
			LastPage:     pages.Last,
			TopLines:     fragment.DefaultTopLines,
			MaxFragments: fragment.DefaultMaxFragments,
		},
		Compose: ComposeConfig{
			Case:      opts.Case.String(),
			Sanitize:  opts.Sanitize.String(),
			MaxLength: opts.MaxLength,
			Extension: opts.Extension,
		},
		Present: PresentConfig{Mode: ModeTUI},
		Watch: WatchConfig{
			DebounceSeconds:   2,
			StableThresholdMs: 1000,
			IgnorePatterns:    watcher.DefaultIgnorePatterns(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/retitle/config.toml, falling back to
// ~/.config/retitle/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "retitle", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "retitle", "config.toml")
	}
	return filepath.Join(home, ".config", "retitle", "config.toml")
}

// Load reads the configuration at filePath. Keys absent from the file keep their
// default values; unknown keys are rejected.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &ConfigError{Type: FileNotFound, Path: filePath, Message: err.Error(), Err: err}
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, &ConfigError{Type: InvalidTOML, Path: filePath, Message: decodeMessage(err), Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeMessage(err error) string {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Sprintf("line %d, column %d: %s", row, col, decErr.Error())
	}
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return strict.String()
	}
	return err.Error()
}

// LoadOrDefault loads filePath, or returns Default when the file does not exist.
func LoadOrDefault(filePath string) (*Configuration, error) {
	cfg, err := Load(filePath)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == FileNotFound && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to filePath as TOML, creating parent directories.
func Save(cfg *Configuration, filePath string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return &ConfigError{Type: InvalidTOML, Path: filePath, Message: err.Error(), Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Path:    filePath,
			Message: fmt.Sprintf("failed to create configuration directory: %s", err),
			Err:     err,
		}
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Path:    filePath,
			Message: fmt.Sprintf("failed to write configuration file: %s", err),
			Err:     err,
		}
	}
	return nil
}

// Validate returns the first validation error, or nil.
func (c *Configuration) Validate() error {
	result := ValidateConfig(c)
	if result.Valid {
		return nil
	}
	first := result.Errors[0]
	return &ConfigError{Type: ValidationError, Message: first.Field + ": " + first.Message}
}

// ComposerOptions returns the composition options described by the [compose] section.
func (c *Configuration) ComposerOptions() (composer.Options, error) {
	caseMode, err := composer.ParseCaseMode(c.Compose.Case)
	if err != nil {
		return composer.Options{}, err
	}
	sanitize, err := composer.ParseSanitizeMode(c.Compose.Sanitize)
	if err != nil {
		return composer.Options{}, err
	}
	return composer.Options{
		Case:      caseMode,
		Sanitize:  sanitize,
		MaxLength: c.Compose.MaxLength,
		Extension: c.Compose.Extension,
	}, nil
}

// FragmentOptions returns the scan window and a classifier holding the extra noise rules.
func (c *Configuration) FragmentOptions() (fragment.Options, error) {
	extra := make([]classifier.Rule, 0, len(c.Extract.ExtraNoise))
	for _, r := range c.Extract.ExtraNoise {
		extra = append(extra, classifier.Rule{Pattern: r.Pattern, Meaning: r.Meaning})
	}
	cl, err := classifier.New(extra...)
	if err != nil {
		return fragment.Options{}, err
	}
	return fragment.Options{
		TopLines:     c.Extract.TopLines,
		MaxFragments: c.Extract.MaxFragments,
		Classifier:   cl,
	}, nil
}

// PageRange returns the pages handed to the text source.
func (c *Configuration) PageRange() pdftext.PageRange {
	return pdftext.PageRange{First: c.Extract.FirstPage, Last: c.Extract.LastPage}
}

// TextSource builds the configured extraction backend.
func (c *Configuration) TextSource() (fragment.TextSource, error) {
	return pdftext.New(c.Extract.Backend, c.Extract.Tool, c.PageRange())
}

// WatcherConfig converts the [watch] section.
func (c *Configuration) WatcherConfig() watcher.WatchConfig {
	return watcher.WatchConfig{
		Debounce:        time.Duration(c.Watch.DebounceSeconds) * time.Second,
		StableThreshold: time.Duration(c.Watch.StableThresholdMs) * time.Millisecond,
		IgnorePatterns:  c.Watch.IgnorePatterns,
		Recursive:       c.Watch.Recursive,
	}
}
