// Package output provides formatting for build log diagnostics.
package output

import (
	"sort"
	"time"

	"github.com/ccollicutt/errlink/pkg/scan"
)

// Report is the complete scan output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Diagnostics lists every location found, in log order.
	Diagnostics []scan.Diagnostic `json:"diagnostics"`

	// Metadata provides context about the scan.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Total is the number of diagnostics found.
	Total int `json:"total"`

	// BySeverity counts diagnostics per normalized severity.
	BySeverity map[string]int `json:"by_severity"`

	// Files lists source files with their diagnostic counts, most first.
	Files []FileCount `json:"files"`

	// LinesProcessed is the total number of log lines read.
	LinesProcessed int `json:"lines_processed"`
}

// FileCount is the number of diagnostics reported against one source file.
type FileCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Metadata provides context about the scan.
type Metadata struct {
	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Extractor names the extractor that produced the diagnostics.
	Extractor string `json:"extractor"`

	// Sources lists the log files that were scanned.
	Sources []string `json:"sources"`

	// ScannedAt is when the scan finished.
	ScannedAt time.Time `json:"scanned_at"`

	// Duration is how long the scan took.
	Duration time.Duration `json:"duration"`
}

// NewReport builds a Report from a scan result.
func NewReport(result *scan.Result, meta Metadata) *Report {
	report := &Report{
		Diagnostics: result.Diagnostics,
		Metadata:    meta,
		Summary: Summary{
			Total:          len(result.Diagnostics),
			BySeverity:     make(map[string]int),
			LinesProcessed: result.LinesProcessed,
		},
	}
	if report.Diagnostics == nil {
		report.Diagnostics = []scan.Diagnostic{}
	}
	if report.Metadata.Sources == nil {
		report.Metadata.Sources = result.Sources
	}

	perFile := make(map[string]int)
	for _, d := range result.Diagnostics {
		report.Summary.BySeverity[d.Severity]++
		perFile[d.Path]++
	}
	for path, count := range perFile {
		report.Summary.Files = append(report.Summary.Files, FileCount{Path: path, Count: count})
	}
	sort.Slice(report.Summary.Files, func(i, j int) bool {
		a, b := report.Summary.Files[i], report.Summary.Files[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Path < b.Path
	})

	return report
}

// HasIssues returns true if any diagnostics were found.
func (r *Report) HasIssues() bool {
	return r.Summary.Total > 0
}

// Severities returns the severities present in the summary in a stable order.
func (s Summary) Severities() []string {
	order := map[string]int{
		scan.SeverityError:   0,
		scan.SeverityWarning: 1,
		scan.SeverityInfo:    2,
		scan.SeverityNote:    3,
	}
	var names []string
	for name := range s.BySeverity {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, iok := order[names[i]]
		oj, jok := order[names[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
	return names
}
