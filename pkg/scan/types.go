// Package scan reads build logs and extracts source diagnostics from them.
package scan

// Line is a raw line read from a log file.
type Line struct {
	// Content is the raw line text.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// Diagnostic is a source location reported by a build tool.
type Diagnostic struct {
	// Path is the source file named by the tool.
	Path string `json:"path"`

	// Line is the 1-based source line.
	Line int `json:"line"`

	// Column is the 1-based source column, or 0 when the tool gave none.
	Column int `json:"column,omitempty"`

	// Severity is the normalized severity: error, warning, info or note.
	Severity string `json:"severity"`

	// Message is the diagnostic text.
	Message string `json:"message"`

	// Source is the log file the diagnostic was read from.
	Source string `json:"source"`

	// LogLine is the 1-based line in Source where the diagnostic starts.
	LogLine int `json:"log_line"`
}

// Severity values.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
	SeverityNote    = "note"
)

// Result holds the diagnostics collected from a set of logs.
type Result struct {
	Diagnostics    []Diagnostic
	Sources        []string
	LinesProcessed int
}
