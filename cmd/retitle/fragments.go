package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"retitle/internal/fragment"
)

func (a *app) fragmentsCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "fragments <pdf>",
		Short: "Print the title candidates found in a PDF",
		Long:  `fragments prints each candidate with its index. The likely title is marked with "*".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("backend") {
				cfg.Extract.Backend = backend
			}

			source, err := cfg.TextSource()
			if err != nil {
				return err
			}
			opts, err := cfg.FragmentOptions()
			if err != nil {
				return err
			}

			frags, err := fragment.ExtractDocument(cmd.Context(), source, args[0], opts)
			if err != nil {
				return err
			}
			if len(frags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No title candidates found")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), fragment.String(frags))
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "text extraction backend: pdftotext|native")
	return cmd
}
