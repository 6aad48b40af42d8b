// Package output writes leveled, user-facing messages and an in-place progress line.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Level tags prefixed to non-info lines.
const (
	debugTag = "[DEBUG] "
	warnTag  = "[WARN] "
	errorTag = "[ERROR] "
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Show Debug messages
	Writer    io.Writer // Info and Debug destination (default: os.Stdout)
	ErrWriter io.Writer // Warn and Error destination (default: os.Stderr)
	IsTTY     bool      // Whether Writer is a terminal
}

// Output handles leveled messages and the progress line. It is safe for concurrent use.
type Output struct {
	config   Config
	mu       sync.Mutex
	progress bool
	total    int
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// DefaultConfig returns a Config writing to the standard streams, with TTY detection.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Discard returns an Output that drops everything.
func Discard() *Output {
	return New(Config{Writer: io.Discard, ErrWriter: io.Discard})
}

// Debug prints a message only when verbose mode is enabled.
func (o *Output) Debug(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.write(o.config.Writer, debugTag, format, args...)
}

// Info prints an informational message (always shown).
func (o *Output) Info(format string, args ...interface{}) {
	o.write(o.config.Writer, "", format, args...)
}

// Warn prints a warning to the error writer.
func (o *Output) Warn(format string, args ...interface{}) {
	o.write(o.config.ErrWriter, warnTag, format, args...)
}

// Error prints an error to the error writer.
func (o *Output) Error(format string, args ...interface{}) {
	o.write(o.config.ErrWriter, errorTag, format, args...)
}

func (o *Output) write(w io.Writer, tag, format string, args ...interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearLocked()

	msg := tag + fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprint(w, msg)
}

func (o *Output) clearLocked() {
	if o.progress {
		fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 60)+"\r")
	}
}

func (o *Output) progressEnabled() bool {
	return o.config.IsTTY && !o.config.Verbose
}

// StartProgress begins a progress session over total items. Progress is shown only on
// a terminal and never in verbose mode.
func (o *Output) StartProgress(total int) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = true
	o.total = total
}

// UpdateProgress redraws the progress line in place.
func (o *Output) UpdateProgress(current int, message string) {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progress {
		return
	}
	if message == "" {
		message = "Processing file"
	}
	fmt.Fprintf(o.config.Writer, "\r%s %d/%d...", message, current, o.total)
}

// EndProgress clears the progress line.
func (o *Output) EndProgress() {
	if !o.progressEnabled() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.progress {
		return
	}
	o.clearLocked()
	o.progress = false
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}

// IsTTY returns whether the output is a terminal.
func (o *Output) IsTTY() bool {
	return o.config.IsTTY
}
