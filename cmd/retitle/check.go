package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"retitle/internal/config"
	"retitle/internal/pdftext"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and verify the extraction tool is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			result := config.ValidateConfig(cfg)
			for _, w := range result.Warnings {
				a.log.Warn("%s: %s", w.Field, w.Message)
			}
			fmt.Fprintln(out, "Configuration OK")

			source, err := cfg.TextSource()
			if err != nil {
				return err
			}
			poppler, ok := source.(*pdftext.Poppler)
			if !ok {
				fmt.Fprintf(out, "Backend %s needs no external tool\n", cfg.Extract.Backend)
				return nil
			}
			path, err := poppler.Check()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Found %s at %s\n", poppler.Tool, path)
			return nil
		},
	}
}
