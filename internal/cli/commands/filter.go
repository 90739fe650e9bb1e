package commands

import (
	"github.com/spf13/cobra"

	"github.com/ccollicutt/errlink/internal/runner"
)

// NewFilterCommand creates the filter command.
func NewFilterCommand(g *GlobalOptions) *cobra.Command {
	opts := &ConsoleOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Link error locations in output read from stdin",
		Long: `Read build output from stdin and print it with error locations linked,
the same way run prints a command's stderr.

Example:
  make 2>&1 | errlink filter --hyperlinks always`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, g, opts)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runFilter(cmd *cobra.Command, g *GlobalOptions, opts *ConsoleOptions) error {
	ctx := commandContext(cmd)

	s, err := newSession(cmd, g, opts)
	if err != nil {
		return err
	}

	run, err := s.console.Start(ctx, "")
	if err != nil {
		return err
	}

	if err := runner.Feed(ctx, run, cmd.InOrStdin()); err != nil {
		return err
	}

	return s.finish(opts)
}
