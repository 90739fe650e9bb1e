package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errlink/pkg/output"
	"github.com/ccollicutt/errlink/pkg/scan"
)

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	Output      string
	Errorformat []string
	Verbose     bool
	Quiet       bool
}

// NewScanCommand creates the scan command.
func NewScanCommand(g *GlobalOptions) *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <log-file>...",
		Short: "Report the error locations found in build logs",
		Long: `Scan saved build logs and report every source location they mention.

Log arguments may be files or glob patterns; "**" matches any number of
directories. Files ending in .gz or .zst are decompressed. Lines are recognized with the built-in location pattern unless
errorformat definitions are given with --errorformat or in the config file.

Exit codes:
  0 - No diagnostics found
  1 - Diagnostics found
  2 - Configuration or runtime error

Example:
  errlink scan build.log
  errlink scan 'logs/**/*.log' -o json
  errlink scan --errorformat '%t: file://%f:(%l, %c): %m' kotlin.log`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringArrayVar(&opts.Errorformat, "errorformat", nil, "Errorformat definition (can be repeated)")
	cmd.Flags().BoolVar(&opts.Verbose, "details", false, "Show the log position of each diagnostic")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, g *GlobalOptions, opts *ScanOptions) error {
	ctx := commandContext(cmd)
	start := time.Now()

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	cfg, err := g.LoadConfig(ctx)
	if err != nil {
		return err
	}

	var extractor scan.Extractor = scan.LocationExtractor{}
	switch {
	case len(opts.Errorformat) > 0:
		efm, err := scan.NewErrorformatExtractor(opts.Errorformat)
		if err != nil {
			return fmt.Errorf("invalid errorformat: %w", err)
		}
		extractor = efm
	case cfg.CompiledErrorformat() != nil:
		extractor = scan.ErrorformatExtractorFor(cfg.CompiledErrorformat())
	}

	files, err := scan.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding log files: %w", err)
	}

	source := scan.NewFileSource(files)
	defer source.Close()

	result, err := scan.Collect(ctx, source, extractor)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	report := output.NewReport(result, output.Metadata{
		ConfigFile: g.ConfigPath,
		Extractor:  extractor.Name(),
		ScannedAt:  time.Now(),
		Duration:   time.Since(start),
	})

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasIssues() {
		ExitCode = 1
	}

	return nil
}
