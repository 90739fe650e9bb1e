// Package cli provides the command-line interface for errlink.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errlink/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "errlink",
		Short: "Turn build error locations into links",
		Long: `errlink runs build commands and turns the source locations in their error
output into terminal hyperlinks.

It recognizes lines like:
  error: src/Foo.kt:42:7: unexpected token
  src/main.c:3:10: error: expected ';'

and links the span "path:line[:column]" to the file when it exists under the
base directory. A failing command is reported with its exit code, and
configured webhooks are notified.

Saved logs can be scanned for a diagnostics report, and detect identifies the
tool dialect of a log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	g.AddFlags(rootCmd)

	rootCmd.AddCommand(commands.NewRunCommand(g))
	rootCmd.AddCommand(commands.NewFilterCommand(g))
	rootCmd.AddCommand(commands.NewScanCommand(g))
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
