package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errlink/internal/runner"
	"github.com/ccollicutt/errlink/pkg/exitcode"
	"github.com/ccollicutt/errlink/pkg/notify"
)

// CompletedMessage is the notification text for a run that did not fail.
const CompletedMessage = "execution finished with exit code: %d"

// RunOptions holds command-line options for the run command.
type RunOptions struct {
	ConsoleOptions
	Dir string
	Env []string
}

// NewRunCommand creates the run command.
func NewRunCommand(g *GlobalOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a build command and link its error locations",
		Long: `Run a build command, printing its output with error locations turned into
terminal hyperlinks.

Every stderr line of the form "[label: ]path:line:[column:] message" whose path
names an existing file is linked to that file. Paths are resolved against
--base-dir (default: current directory).

When the command fails, "execution is failed with exit code: N" is printed and
configured webhooks are notified. Exit codes of 128 and above (interrupted or
killed processes) are not reported.

Exit codes:
  The exit code of the command, or 2 for errlink errors

Example:
  errlink run -- ./gradlew assembleDebug
  errlink run --hyperlinks always --link-template 'vscode://file{path}:{line}:{column}' -- make`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, g, opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Working directory of the command")
	cmd.Flags().StringArrayVarP(&opts.Env, "env", "e", nil, "Extra environment variable KEY=VALUE (can be repeated)")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, g *GlobalOptions, opts *RunOptions) error {
	ctx := commandContext(cmd)

	for _, kv := range opts.Env {
		if !strings.Contains(kv, "=") {
			return fmt.Errorf("invalid --env %q (want KEY=VALUE)", kv)
		}
	}

	s, err := newSession(cmd, g, &opts.ConsoleOptions)
	if err != nil {
		return err
	}

	label := strings.Join(args, " ")
	run, err := s.console.Start(ctx, label)
	if err != nil {
		return err
	}

	code, err := runner.Run(ctx, run, args[0], args[1:], runner.Options{
		Dir:   opts.Dir,
		Env:   opts.Env,
		Stdin: cmd.InOrStdin(),
	})
	if err != nil {
		s.logger.Error("command did not run", "command", args[0], "error", err)
	}

	// Failures were already notified by the console. Interrupted runs are
	// not reported at all.
	if exitcode.Classify(code) == exitcode.Success {
		notifyCompleted(cmd, s, label, code)
	}

	ExitCode = code
	return s.finish(&opts.ConsoleOptions)
}

func notifyCompleted(cmd *cobra.Command, s *session, label string, code int) {
	err := s.webhooks.Notify(commandContext(cmd), notify.Notification{
		Title:    s.cfg.Title,
		Message:  fmt.Sprintf(CompletedMessage, code),
		Severity: notify.SeverityInfo,
		ExitCode: code,
		Command:  label,
	})
	if err != nil {
		s.logger.Warn("notification failed", "error", err)
	}
}
