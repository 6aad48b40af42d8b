package watcher

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrFileNotFound is returned when the file disappears while waiting.
var ErrFileNotFound = errors.New("file not found")

// ErrFileUnstable is returned when the file keeps changing past the timeout.
var ErrFileUnstable = errors.New("file did not stabilize within timeout")

// StabilityChecker waits until a file stops growing, so a PDF still being downloaded or
// copied is not read half-written.
type StabilityChecker struct {
	threshold time.Duration // how long the size must stay unchanged
	timeout   time.Duration
	interval  time.Duration
}

// NewStabilityChecker creates a checker with a 30s timeout, polling every threshold/4
// and never faster than every 50ms.
func NewStabilityChecker(threshold time.Duration) *StabilityChecker {
	interval := threshold / 4
	if interval < 50*time.Millisecond {
		interval = 50 * time.Millisecond
	}
	return &StabilityChecker{threshold: threshold, timeout: 30 * time.Second, interval: interval}
}

// Wait blocks until the size of path has been unchanged for the threshold.
// A zero threshold only checks that the file exists.
func (s *StabilityChecker) Wait(ctx context.Context, path string) error {
	last, err := fileSize(path)
	if err != nil || s.threshold <= 0 {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	changed := time.Now()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrFileUnstable
			}
			return ctx.Err()
		case <-ticker.C:
			size, err := fileSize(path)
			if err != nil {
				return err
			}
			if size != last {
				last = size
				changed = time.Now()
			} else if time.Since(changed) >= s.threshold {
				return nil
			}
		}
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrFileNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}
