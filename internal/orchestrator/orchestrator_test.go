package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retitle/internal/composer"
	"retitle/internal/fragment"
	"retitle/internal/output"
	"retitle/internal/scanner"
	"retitle/internal/selection"
)

const samplePage = `JOURNAL OF STREAM SYSTEMS, VOL. 3
Efficient Algorithms for
Stream Processing
Jane Doe and John Roe
Abstract
`

// stubSource returns canned text per base name; unknown names fail.
type stubSource struct {
	texts map[string]string
}

func (s *stubSource) Text(_ context.Context, path string) (string, error) {
	text, ok := s.texts[filepath.Base(path)]
	if !ok {
		return "", errors.New("cannot read " + path)
	}
	return text, nil
}

// scriptedPresenter returns queued decisions and records what it was shown.
type scriptedPresenter struct {
	decisions []selection.Decision
	err       error
	shown     []selection.Document
}

func (p *scriptedPresenter) Present(_ context.Context, doc selection.Document) (selection.Decision, error) {
	p.shown = append(p.shown, doc)
	if p.err != nil {
		return selection.Decision{}, p.err
	}
	if len(p.decisions) == 0 {
		return selection.Decision{Outcome: selection.Cancel}, nil
	}
	d := p.decisions[0]
	p.decisions = p.decisions[1:]
	return d, nil
}

func confirm(name string) selection.Decision {
	return selection.Decision{Outcome: selection.Confirm, Filename: name}
}

func setup(t *testing.T, names ...string) (string, []scanner.FileEntry) {
	t.Helper()
	dir := t.TempDir()
	var files []scanner.FileEntry
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
		files = append(files, scanner.FileEntry{Name: name, FullPath: path})
	}
	return dir, files
}

func newLog() (*output.Output, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return output.New(output.Config{Writer: &stdout, ErrWriter: &stderr}), &stdout, &stderr
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRun_RenamesConfirmedFile(t *testing.T) {
	dir, files := setup(t, "scan1.pdf")
	src := &stubSource{texts: map[string]string{"scan1.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{confirm("Efficient Algorithms.pdf")}}
	log, stdout, _ := newLog()

	summary := New(src, presenter, log, Options{}).Run(context.Background(), files)

	if summary.Count(Renamed) != 1 || summary.ExitCode() != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.RunID == "" {
		t.Error("expected a run ID")
	}
	if !exists(filepath.Join(dir, "Efficient Algorithms.pdf")) || exists(files[0].FullPath) {
		t.Error("file was not renamed")
	}
	if !strings.Contains(stdout.String(), "Renamed scan1.pdf -> Efficient Algorithms.pdf") {
		t.Errorf("missing rename message: %q", stdout.String())
	}

	shown := presenter.shown[0]
	if shown.Path != files[0].FullPath || len(shown.Fragments) == 0 {
		t.Fatalf("presenter got %+v", shown)
	}
	if shown.Fragments[0].LikelyTitle {
		t.Error("journal header must not be the likely title")
	}
	if !shown.Fragments[1].LikelyTitle || shown.Fragments[1].Text != "Efficient Algorithms for" {
		t.Errorf("first clean line should be the likely title, got %+v", shown.Fragments[1])
	}
}

func TestRun_ConflictLeavesFilesAndFailsExit(t *testing.T) {
	dir, files := setup(t, "a.pdf", "b.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage, "b.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{confirm("b.pdf"), {Outcome: selection.Cancel}}}
	log, _, stderr := newLog()

	summary := New(src, presenter, log, Options{}).Run(context.Background(), files)

	if summary.Count(Conflict) != 1 || summary.ExitCode() != 1 {
		t.Fatalf("expected one conflict and exit 1, got %+v", summary)
	}
	a, _ := os.ReadFile(filepath.Join(dir, "a.pdf"))
	b, _ := os.ReadFile(filepath.Join(dir, "b.pdf"))
	if string(a) != "a.pdf" || string(b) != "b.pdf" {
		t.Error("conflict must leave both files untouched")
	}
	if !strings.Contains(stderr.String(), "[ERROR] not renaming a.pdf: b.pdf already exists") {
		t.Errorf("missing conflict error: %q", stderr.String())
	}
	if len(presenter.shown) != 2 {
		t.Error("a conflict must not stop the run")
	}
}

func TestRun_AbortStopsImmediately(t *testing.T) {
	_, files := setup(t, "a.pdf", "b.pdf", "c.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage, "b.pdf": samplePage, "c.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{{Outcome: selection.Cancel}, {Outcome: selection.Abort}}}
	log, stdout, _ := newLog()

	summary := New(src, presenter, log, Options{}).Run(context.Background(), files)

	if !summary.Aborted || len(presenter.shown) != 2 || len(summary.Results) != 1 {
		t.Fatalf("expected abort after the second file, got %+v", summary)
	}
	if summary.ExitCode() != 0 {
		t.Error("abort alone exits 0")
	}
	if !strings.Contains(stdout.String(), "Run aborted") {
		t.Errorf("missing abort message: %q", stdout.String())
	}
	if !exists(files[2].FullPath) {
		t.Error("unprocessed files are untouched")
	}
}

func TestRun_MissingFileWarnsAndContinues(t *testing.T) {
	dir, files := setup(t, "b.pdf")
	files = append([]scanner.FileEntry{{Name: "gone.pdf", FullPath: filepath.Join(dir, "gone.pdf")}}, files...)
	src := &stubSource{texts: map[string]string{"b.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{confirm("Title.pdf")}}
	log, _, stderr := newLog()

	summary := New(src, presenter, log, Options{}).Run(context.Background(), files)

	if summary.Results[0].Status != Missing || summary.Results[1].Status != Renamed {
		t.Fatalf("unexpected results %+v", summary.Results)
	}
	if !strings.Contains(stderr.String(), "[WARN] skipping") {
		t.Errorf("expected warning, got %q", stderr.String())
	}
	if summary.ExitCode() != 0 {
		t.Error("missing files do not fail the run")
	}
}

func TestRun_ExtractionFailureShowsSentinel(t *testing.T) {
	_, files := setup(t, "broken.pdf")
	presenter := &scriptedPresenter{}
	log, _, stderr := newLog()

	summary := New(&stubSource{}, presenter, log, Options{}).Run(context.Background(), files)

	if len(presenter.shown) != 1 || !fragment.IsFailure(presenter.shown[0].Fragments) {
		t.Fatalf("presenter should see the failure sentinel, got %+v", presenter.shown)
	}
	if !strings.Contains(stderr.String(), "text extraction failed") {
		t.Errorf("extraction error should be logged, got %q", stderr.String())
	}
	if summary.Results[0].Status != Skipped {
		t.Errorf("expected Skipped, got %s", summary.Results[0].Status)
	}
}

func TestRun_ExtractionFailureAutoCancels(t *testing.T) {
	_, files := setup(t, "broken.pdf")
	auto := selection.NewAuto(composer.DefaultOptions())

	summary := New(&stubSource{}, auto, nil, Options{}).Run(context.Background(), files)

	if summary.Results[0].Status != Skipped || !exists(files[0].FullPath) {
		t.Errorf("auto mode must cancel on failure, got %+v", summary.Results[0])
	}
}

func TestRun_NoFragmentsSkipsPresenter(t *testing.T) {
	_, files := setup(t, "blank.pdf")
	src := &stubSource{texts: map[string]string{"blank.pdf": "12\n\n  \n2021\n"}}
	presenter := &scriptedPresenter{}

	summary := New(src, presenter, nil, Options{}).Run(context.Background(), files)

	if summary.Results[0].Status != NoFragments || len(presenter.shown) != 0 {
		t.Errorf("expected NoFragments without presenting, got %+v", summary.Results[0])
	}
}

func TestRun_EmptyOrUnchangedNameIsCancel(t *testing.T) {
	_, files := setup(t, "a.pdf", "b.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage, "b.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{confirm(""), confirm("b.pdf")}}

	summary := New(src, presenter, nil, Options{}).Run(context.Background(), files)

	for _, r := range summary.Results {
		if r.Status != Skipped {
			t.Errorf("%s: expected Skipped, got %s", r.SourcePath, r.Status)
		}
	}
	if exists(filepath.Join(filepath.Dir(files[0].FullPath), ".pdf")) {
		t.Error("never rename to a bare extension")
	}
}

func TestRun_PresenterErrorIsCancel(t *testing.T) {
	_, files := setup(t, "a.pdf", "b.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage, "b.pdf": samplePage}}
	presenter := &scriptedPresenter{err: errors.New("terminal went away")}
	log, _, stderr := newLog()

	summary := New(src, presenter, log, Options{}).Run(context.Background(), files)

	if len(summary.Results) != 2 || summary.Aborted {
		t.Fatalf("presenter errors skip the file only, got %+v", summary)
	}
	if !strings.Contains(stderr.String(), "terminal went away") {
		t.Errorf("presenter error should be logged, got %q", stderr.String())
	}
}

func TestRun_DryRunDoesNotRename(t *testing.T) {
	dir, files := setup(t, "a.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{confirm("Title.pdf")}}
	log, stdout, _ := newLog()

	summary := New(src, presenter, log, Options{DryRun: true}).Run(context.Background(), files)

	if summary.Results[0].Status != Planned {
		t.Fatalf("expected Planned, got %s", summary.Results[0].Status)
	}
	if !exists(files[0].FullPath) || exists(filepath.Join(dir, "Title.pdf")) {
		t.Error("dry run must not touch files")
	}
	if !strings.Contains(stdout.String(), "Would rename a.pdf -> Title.pdf") {
		t.Errorf("missing dry-run message: %q", stdout.String())
	}
}

func TestRun_BeforeRenameHook(t *testing.T) {
	dir, files := setup(t, "a.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{confirm("Title.pdf")}}

	var hooked string
	opts := Options{BeforeRename: func(dest string) { hooked = dest }}
	New(src, presenter, nil, opts).Run(context.Background(), files)

	if hooked != filepath.Join(dir, "Title.pdf") {
		t.Errorf("hook got %q", hooked)
	}
}

func TestRun_CancelledContextAborts(t *testing.T) {
	_, files := setup(t, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := New(&stubSource{}, &scriptedPresenter{}, nil, Options{}).Run(ctx, files)
	if !summary.Aborted || len(summary.Results) != 0 {
		t.Errorf("expected immediate abort, got %+v", summary)
	}
}

func TestRun_DebugLogsFragments(t *testing.T) {
	_, files := setup(t, "a.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage}}
	var stdout bytes.Buffer
	log := output.New(output.Config{Verbose: true, Writer: &stdout, ErrWriter: &stdout})

	New(src, &scriptedPresenter{}, log, Options{}).Run(context.Background(), files)

	if !strings.Contains(stdout.String(), "[DEBUG] fragment 1 (line 1, likely title true): Efficient Algorithms for") {
		t.Errorf("expected fragment debug line, got %q", stdout.String())
	}
}

func TestWatch_ProcessesUntilChannelCloses(t *testing.T) {
	dir, files := setup(t, "a.pdf", "b.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage, "b.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{confirm("First.pdf"), confirm("Second.pdf")}}

	paths := make(chan string, 2)
	paths <- files[0].FullPath
	paths <- files[1].FullPath
	close(paths)

	summary := New(src, presenter, nil, Options{}).Watch(context.Background(), paths)

	if summary.Count(Renamed) != 2 {
		t.Fatalf("expected two renames, got %+v", summary.Results)
	}
	if !exists(filepath.Join(dir, "First.pdf")) || !exists(filepath.Join(dir, "Second.pdf")) {
		t.Error("files were not renamed")
	}
}

func TestWatch_AbortStops(t *testing.T) {
	_, files := setup(t, "a.pdf", "b.pdf")
	src := &stubSource{texts: map[string]string{"a.pdf": samplePage, "b.pdf": samplePage}}
	presenter := &scriptedPresenter{decisions: []selection.Decision{{Outcome: selection.Abort}}}

	paths := make(chan string, 2)
	paths <- files[0].FullPath
	paths <- files[1].FullPath

	summary := New(src, presenter, nil, Options{}).Watch(context.Background(), paths)
	if !summary.Aborted || len(presenter.shown) != 1 {
		t.Errorf("expected abort on first path, got %+v", summary)
	}
}

func TestPrintSummary(t *testing.T) {
	s := &Summary{Results: []Result{
		{Status: Renamed}, {Status: Renamed}, {Status: Skipped}, {Status: Missing}, {Status: Conflict},
	}, Aborted: true}
	want := "Processed 5 files, 2 renamed, 2 skipped, 1 conflicts (aborted)"
	if got := s.PrintSummary(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !s.HasErrors() {
		t.Error("a conflict is an error")
	}
}
