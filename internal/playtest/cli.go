package playtest

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/okian/cinedle/pkg/logger"
)

// NewCommand returns the root command of the guess tool.
func NewCommand() *cobra.Command {
	cfg := &Config{}
	var (
		noColor bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "guess [flags] TITLE...",
		Short: "Send guesses to a running cinedle server and show the feedback",
		Example: `  guess "Dune" "Arrival"
  guess --url http://localhost:8080 --workers 8 "Heat" "Ronin" "Collateral"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if verbose {
				return logger.SetLevelString("debug")
			}
			return logger.SetLevelString("warn")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Guesses = args
			cfg.Color = !noColor && isTerminal(cmd.OutOrStdout())
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			_, err := Run(ctx, cfg, cmd.OutOrStdout())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", DefaultBaseURL, "Base URL of the service")
	flags.IntVar(&cfg.Workers, "workers", DefaultWorkers, "Maximum concurrent requests")
	flags.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
