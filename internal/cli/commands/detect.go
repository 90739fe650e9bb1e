package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/errlink/pkg/config"
	"github.com/ccollicutt/errlink/pkg/dialect"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect which build tool produced a log",
		Long: `Analyze a build log to identify the shape of its diagnostic lines.

Samples lines from the file and tests them against known tool dialects.
Reports the detected dialect with a confidence score, whether run and filter
link it out of the box, and an errorformat snippet for scan when they don't.

Optionally generates a starter config file with --write-config.

Supports:
  - GNU style tools (gcc, clang, go)
  - javac
  - kotlinc and the Gradle Kotlin plugin
  - rustc location lines
  - Python tracebacks

Example:
  errlink detect build.log
  errlink detect --sample 2000 build.log
  errlink detect --write-config .errlink.yaml build.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 500, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all detected dialects, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := commandContext(cmd)

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := dialect.New(dialect.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	w := cmd.OutOrStdout()

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, opts.WriteConfig); err != nil {
			return err
		}
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(w, result, logFile, opts)
	case "text":
		return outputDetectText(w, result, logFile, opts)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *dialect.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Build Log Dialect Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with locations: %d\n", result.MatchedLines)
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No known dialect detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: The tool may use an uncommon format.")
		fmt.Fprintln(w, "Write an errorformat definition for it and pass it to scan with --errorformat.")
		return nil
	}

	best := result.BestMatch()
	fmt.Fprintf(w, "Detected Dialect: %s (%s)\n", best.Dialect.Name, best.Dialect.Description)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Points at: %s\n", formatPosition(best.Position))
	fmt.Fprintln(w)

	if best.Dialect.Linkable {
		fmt.Fprintln(w, "Linked by run and filter without configuration.")
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "Not linked by the built-in location pattern.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
		fmt.Fprintln(w)
		fmt.Fprint(w, errorformatSnippet(best.Dialect))
		fmt.Fprintln(w)
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Fprintln(w, "--- Alternative dialects detected ---")
		for i, m := range result.Matches[1:] {
			fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Dialect.Name, m.Confidence*100)
			fmt.Fprintf(w, "   sample: %s\n", m.SampleLine)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func formatPosition(p dialect.Position) string {
	s := fmt.Sprintf("%s:%d", p.Path, p.Line)
	if p.Column > 0 {
		s += fmt.Sprintf(":%d", p.Column)
	}
	return s
}

func errorformatSnippet(d *dialect.Dialect) string {
	var sb strings.Builder
	sb.WriteString("errorformat:\n")
	for _, efm := range d.Errorformat {
		fmt.Fprintf(&sb, "  - '%s'\n", strings.ReplaceAll(efm, "'", "''"))
	}
	return sb.String()
}

// JSONMatch represents a dialect match in JSON output.
type JSONMatch struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Confidence  float64  `json:"confidence"`
	MatchCount  int      `json:"match_count"`
	SampleLine  string   `json:"sample_line"`
	Linkable    bool     `json:"linkable"`
	Errorformat []string `json:"errorformat,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File         string      `json:"file"`
	Matches      []JSONMatch `json:"matches"`
	SampledLines int         `json:"sampled_lines"`
	MatchedLines int         `json:"matched_lines"`
}

func outputDetectJSON(w io.Writer, result *dialect.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
		MatchedLines: result.MatchedLines,
		Matches:      make([]JSONMatch, 0),
	}

	matches := result.Matches
	if !opts.ShowAll && len(matches) > 1 {
		matches = matches[:1]
	}

	for _, m := range matches {
		out.Matches = append(out.Matches, JSONMatch{
			Name:        m.Dialect.Name,
			Description: m.Dialect.Description,
			Confidence:  m.Confidence,
			MatchCount:  m.MatchCount,
			SampleLine:  m.SampleLine,
			Linkable:    m.Dialect.Linkable,
			Errorformat: m.Dialect.Errorformat,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// writeStarterConfig generates a starter config file for the detected dialect.
func writeStarterConfig(w io.Writer, result *dialect.DetectionResult, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	if !result.HasMatch() {
		return fmt.Errorf("cannot generate config: no dialect detected")
	}

	content := generateStarterConfig(result.BestMatch())

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return nil
}

// generateStarterConfig creates a YAML config template.
func generateStarterConfig(match *dialect.Match) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `# errlink configuration
# Generated by: errlink detect
# Detected dialect: %s (%.0f%% confidence)

# Relative paths in error lines are resolved against this directory.
base_dir: %s

color: auto
hyperlinks: auto

# Other editors:
#   vscode://file{path}:{line}:{column}
#   idea://open?file={path}&line={line}
link_template: "%s"
`, match.Dialect.Name, match.Confidence*100, config.DefaultBaseDir, config.DefaultConfig().LinkTemplate)

	if len(match.Dialect.Errorformat) > 0 {
		sb.WriteString("\n# Used by errlink scan.\n")
		sb.WriteString(errorformatSnippet(match.Dialect))
	}

	sb.WriteString(`
# webhooks:
#   - name: ci
#     url: https://example.com/hook
#     token: ${HOOK_TOKEN}
#     trigger: on_failure
`)
	return sb.String()
}
