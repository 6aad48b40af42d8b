// Package main provides the CLI entry point for retitle.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"retitle/internal/config"
	"retitle/internal/orchestrator"
	"retitle/internal/output"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// A second interrupt kills the process, even while blocked reading a prompt.
	go func() {
		<-ctx.Done()
		stop()
	}()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	return a.execute(ctx, os.Args[1:])
}

// app carries the state shared by every command of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	log      *output.Output
	exitCode int
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return a.exitCode
}

func (a *app) rootCmd() *cobra.Command {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:   "retitle [flags] <pdf|dir>...",
		Short: "Rename PDF files after the title printed on their first page",
		Long: `retitle reads the first pages of each PDF, shows the lines that look like a title,
and renames the file after the ones you pick. Directories expand to the PDFs they contain.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLog()
			a.log.Debug("retitle %s invoked as %q", version, os.Args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rename(cmd, flags, args)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "print debug messages")
	flags.bind(root)
	root.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "descend into subdirectories")

	root.AddCommand(a.watchCmd())
	root.AddCommand(a.checkCmd())
	root.AddCommand(a.fragmentsCmd())
	root.AddCommand(a.configCmd())
	root.AddCommand(a.versionCmd())
	return root
}

func (a *app) setupLog() {
	cfg := output.DefaultConfig()
	cfg.Verbose = a.verbose
	cfg.Writer = a.stdout
	cfg.ErrWriter = a.stderr
	if a.stdout != os.Stdout {
		cfg.IsTTY = false
	}
	a.log = output.New(cfg)
}

// loadConfig reads the file named by --config, which must exist, or the default file
// when present.
func (a *app) loadConfig() (*config.Configuration, error) {
	if a.configPath != "" {
		a.log.Debug("loading configuration from %s", a.configPath)
		return config.Load(a.configPath)
	}
	path := config.DefaultPath()
	a.log.Debug("loading configuration from %s if present", path)
	return config.LoadOrDefault(path)
}

func (a *app) finish(summary *orchestrator.Summary) {
	a.log.Debug("run %s finished in %s", summary.RunID, summary.Duration)
	a.log.Info("%s", summary.PrintSummary())
	a.exitCode = summary.ExitCode()
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "retitle %s\n", version)
		},
	}
}
