package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/errlink/pkg/scan"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "errlink: %d diagnostics in %d files (%s)\n",
		report.Summary.Total,
		len(report.Summary.Files),
		severityCounts(report.Summary))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	if len(report.Diagnostics) == 0 {
		fmt.Fprintln(w, "No diagnostics found")
	}

	for _, d := range report.Diagnostics {
		f.formatDiagnostic(d, w)
	}

	if len(report.Summary.Files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Files:")
		for _, fc := range report.Summary.Files {
			fmt.Fprintf(w, "  %-40s %d\n", fc.Path, fc.Count)
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d diagnostics (%s)\n", report.Summary.Total, severityCounts(report.Summary))

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines processed: %d\n", report.Summary.LinesProcessed)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatDiagnostic(d scan.Diagnostic, w io.Writer) {
	pos := fmt.Sprintf("%s:%d", d.Path, d.Line)
	if d.Column > 0 {
		pos += fmt.Sprintf(":%d", d.Column)
	}
	fmt.Fprintf(w, "%s: %s: %s\n", pos, d.Severity, d.Message)

	if f.opts.Verbose && d.Source != "" {
		fmt.Fprintf(w, "    Source: %s:%d\n", d.Source, d.LogLine)
	}
}

func severityCounts(s Summary) string {
	names := s.Severities()
	if len(names) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", s.BySeverity[name], name))
	}
	return strings.Join(parts, ", ")
}
