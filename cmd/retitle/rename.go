package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"retitle/internal/composer"
	"retitle/internal/config"
	"retitle/internal/orchestrator"
	"retitle/internal/prompt"
	"retitle/internal/scanner"
	"retitle/internal/selection"
	"retitle/internal/tui"
)

// runFlags are the flags shared by the rename and watch commands. Each one overrides
// the configuration file only when given on the command line.
type runFlags struct {
	caseMode  string
	sanitize  string
	mode      string
	backend   string
	maxLength int
	dryRun    bool
	recursive bool
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.caseMode, "case", "", "letter case: original|upper|lower|title")
	cmd.Flags().StringVar(&f.sanitize, "sanitize", "", "character filter: none|problematic|ascii")
	cmd.Flags().StringVar(&f.mode, "mode", "", "presentation: tui|prompt|auto")
	cmd.Flags().StringVar(&f.backend, "backend", "", "text extraction backend: pdftotext|native")
	cmd.Flags().IntVar(&f.maxLength, "max-length", 0, "maximum filename length before the extension")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "show the renames without performing them")
}

// apply copies the flags the operator set onto cfg and revalidates it.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Configuration) error {
	changed := cmd.Flags().Changed
	if changed("case") {
		cfg.Compose.Case = f.caseMode
	}
	if changed("sanitize") {
		cfg.Compose.Sanitize = f.sanitize
	}
	if changed("mode") {
		cfg.Present.Mode = f.mode
	}
	if changed("backend") {
		cfg.Extract.Backend = f.backend
	}
	if changed("max-length") {
		cfg.Compose.MaxLength = f.maxLength
	}
	if changed("recursive") {
		cfg.Watch.Recursive = f.recursive
	}
	return cfg.Validate()
}

func (a *app) rename(cmd *cobra.Command, flags *runFlags, args []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	files, errs := scanner.Expand(args, scanner.ScanOptions{Recursive: flags.recursive})
	for _, err := range errs {
		a.log.Warn("%v", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found")
	}
	a.log.Debug("%d files to process", len(files))

	orch, err := a.newOrchestrator(cfg, flags.dryRun, nil)
	if err != nil {
		return err
	}
	a.finish(orch.Run(cmd.Context(), files))
	return nil
}

// newOrchestrator wires the configured text source, presenter and options together.
func (a *app) newOrchestrator(cfg *config.Configuration, dryRun bool, beforeRename func(string)) (*orchestrator.Orchestrator, error) {
	source, err := cfg.TextSource()
	if err != nil {
		return nil, err
	}
	fragOpts, err := cfg.FragmentOptions()
	if err != nil {
		return nil, err
	}
	composeOpts, err := cfg.ComposerOptions()
	if err != nil {
		return nil, err
	}

	presenter, mode := a.presenter(cfg.Present.Mode, composeOpts)
	a.log.Debug("backend %s, mode %s, case %s, sanitize %s", cfg.Extract.Backend, mode,
		composeOpts.Case, composeOpts.Sanitize)

	return orchestrator.New(source, presenter, a.log, orchestrator.Options{
		DryRun:       dryRun,
		Fragment:     fragOpts,
		Progress:     mode == config.ModeAuto,
		BeforeRename: beforeRename,
	}), nil
}

// presenter returns the presenter for mode. The full-screen interface needs a terminal;
// without one it falls back to the line prompt.
func (a *app) presenter(mode string, opts composer.Options) (selection.Presenter, string) {
	if mode == config.ModeTUI && !prompt.IsInteractive() {
		a.log.Warn("stdin is not a terminal, using prompt mode")
		mode = config.ModePrompt
	}
	switch mode {
	case config.ModeTUI:
		return tui.NewPresenter(a.stdin, a.stdout, opts), mode
	case config.ModePrompt:
		return prompt.New(a.stdin, a.stdout, opts), mode
	default:
		return selection.NewAuto(opts), config.ModeAuto
	}
}
