// Package orchestrator drives documents one at a time through extraction, presentation,
// composition and the guarded rename.
package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"retitle/internal/fragment"
	"retitle/internal/organizer"
	"retitle/internal/output"
	"retitle/internal/scanner"
	"retitle/internal/selection"
)

// Options configures an Orchestrator.
type Options struct {
	DryRun   bool             // validate renames without performing them
	Fragment fragment.Options // extraction window and noise rules
	Progress bool             // show the progress line during Run

	// BeforeRename, if set, is called with the destination path just before a rename.
	BeforeRename func(dest string)
}

// Orchestrator processes documents sequentially. It holds no per-document state.
type Orchestrator struct {
	source    fragment.TextSource
	presenter selection.Presenter
	log       *output.Output
	opts      Options
}

// New creates an Orchestrator. A nil log discards messages.
func New(source fragment.TextSource, presenter selection.Presenter, log *output.Output, opts Options) *Orchestrator {
	if log == nil {
		log = output.Discard()
	}
	return &Orchestrator{source: source, presenter: presenter, log: log, opts: opts}
}

func (o *Orchestrator) newSummary(total int) *Summary {
	s := &Summary{RunID: uuid.NewString(), Started: time.Now(), Total: total}
	o.log.Debug("run %s: %d files, dry-run=%v", s.RunID, total, o.opts.DryRun)
	return s
}

// Run processes files in order until they are exhausted, the operator aborts, or ctx is
// cancelled.
func (o *Orchestrator) Run(ctx context.Context, files []scanner.FileEntry) *Summary {
	summary := o.newSummary(len(files))
	defer func() { summary.Duration = time.Since(summary.Started) }()

	if o.opts.Progress {
		o.log.StartProgress(len(files))
		defer o.log.EndProgress()
	}

	for i, file := range files {
		if o.opts.Progress {
			o.log.UpdateProgress(i+1, "")
		}
		result, abort := o.Process(ctx, file.FullPath)
		if abort {
			summary.Aborted = true
			o.log.Info("Run aborted")
			return summary
		}
		summary.add(result)
	}
	return summary
}

// Watch processes paths as they arrive until the channel closes or the run is aborted.
func (o *Orchestrator) Watch(ctx context.Context, paths <-chan string) *Summary {
	summary := o.newSummary(0)
	defer func() { summary.Duration = time.Since(summary.Started) }()

	for path := range paths {
		result, abort := o.Process(ctx, path)
		if abort {
			summary.Aborted = true
			o.log.Info("Run aborted")
			return summary
		}
		summary.add(result)
	}
	return summary
}

// Process handles one document. It reports abort when the run must stop; the result
// is then meaningless.
func (o *Orchestrator) Process(ctx context.Context, path string) (Result, bool) {
	result := Result{SourcePath: path}
	if ctx.Err() != nil {
		return result, true
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err == nil {
			err = errors.New("not a regular file")
		}
		o.log.Warn("skipping %s: %v", path, err)
		result.Status = Missing
		result.Error = err
		return result, false
	}

	o.log.Debug("extracting text from %s", path)
	frags, err := fragment.ExtractDocument(ctx, o.source, path, o.opts.Fragment)
	if err != nil {
		if ctx.Err() != nil {
			return result, true
		}
		o.log.Error("text extraction failed for %s: %v", path, err)
	}
	for _, f := range frags {
		o.log.Debug("fragment %d (line %d, likely title %v): %s", f.Position, f.Line, f.LikelyTitle, f.Text)
	}

	if len(frags) == 0 {
		o.log.Info("No title candidates in %s, skipping", filepath.Base(path))
		result.Status = NoFragments
		return result, false
	}

	decision, err := o.presenter.Present(ctx, selection.Document{Path: path, Fragments: frags})
	if err != nil {
		if ctx.Err() != nil {
			return result, true
		}
		o.log.Error("presenting %s: %v", path, err)
		result.Status = Skipped
		result.Error = err
		return result, false
	}

	switch decision.Outcome {
	case selection.Abort:
		return result, true
	case selection.Cancel:
		o.log.Debug("skipped %s", path)
		result.Status = Skipped
		return result, false
	}

	if decision.Filename == "" || decision.Filename == filepath.Base(path) {
		o.log.Info("Name unchanged, skipping %s", filepath.Base(path))
		result.Status = Skipped
		return result, false
	}

	return o.rename(result, decision.Filename), false
}

func (o *Orchestrator) rename(result Result, filename string) Result {
	var (
		moved *organizer.RenameResult
		err   error
	)
	if o.opts.DryRun {
		moved, err = organizer.Plan(result.SourcePath, filename)
	} else {
		if o.opts.BeforeRename != nil {
			o.opts.BeforeRename(filepath.Join(filepath.Dir(result.SourcePath), filename))
		}
		moved, err = organizer.Rename(result.SourcePath, filename)
	}

	if err != nil {
		result.Error = err
		if organizer.IsConflict(err) {
			result.Status = Conflict
			o.log.Error("not renaming %s: %s already exists", filepath.Base(result.SourcePath), filename)
		} else {
			result.Status = Failed
			o.log.Error("renaming %s: %v", result.SourcePath, err)
		}
		return result
	}

	result.DestinationPath = moved.DestinationPath
	if o.opts.DryRun {
		result.Status = Planned
		o.log.Info("Would rename %s -> %s", filepath.Base(moved.SourcePath), filepath.Base(moved.DestinationPath))
	} else {
		result.Status = Renamed
		o.log.Info("Renamed %s -> %s", filepath.Base(moved.SourcePath), filepath.Base(moved.DestinationPath))
	}
	return result
}
