package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter writes reports as indented JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns "json".
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes report to w. Quiet output carries the summary and metadata
// without the diagnostics. Messages are written without HTML escaping, so
// text such as "<module>" stays readable.
func (f *JSONFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	var v any = report
	if f.opts.Quiet {
		v = struct {
			Summary  Summary  `json:"summary"`
			Metadata Metadata `json:"metadata"`
		}{report.Summary, report.Metadata}
	}
	return enc.Encode(v)
}
