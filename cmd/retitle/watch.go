package main

import (
	"github.com/spf13/cobra"

	"retitle/internal/watcher"
)

func (a *app) watchCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "watch [flags] <dir>...",
		Short: "Watch directories and retitle PDFs as they arrive",
		Long: `watch processes every PDF that lands in the given directories until interrupted.
Files already present when the watch starts are left alone.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			w := watcher.New(cfg.WatcherConfig(), a.log)
			orch, err := a.newOrchestrator(cfg, flags.dryRun, w.MarkHandled)
			if err != nil {
				return err
			}

			paths, err := w.Start(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer w.Stop()

			a.log.Info("Watching %d directories, press ctrl+c to stop", len(args))
			a.finish(orch.Watch(cmd.Context(), paths))
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "also watch subdirectories")
	return cmd
}
