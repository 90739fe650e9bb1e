// Package dialect recognizes which build tool produced a log from the shape
// of its diagnostic lines.
package dialect

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/errlink/pkg/scan"
)

// DetectionResult holds the result of analyzing a log.
type DetectionResult struct {
	Matches      []Match // Dialects that matched, sorted by confidence descending
	SampledLines int     // Number of lines sampled
	MatchedLines int     // Number of lines recognized by the best match
}

// Match is a dialect that matched with its confidence score.
type Match struct {
	Dialect    *Dialect
	Confidence float64  // 0.0 to 1.0 (fraction of sampled lines matched)
	MatchCount int      // Number of lines that matched
	SampleLine string   // First line that matched
	Position   Position // Location parsed from the sample line
}

// Detector samples build logs to identify their dialect.
type Detector struct {
	dialects   []*Dialect
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 500).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithDialects replaces the built-in dialects.
func WithDialects(dialects ...*Dialect) Option {
	return func(d *Detector) {
		d.dialects = dialects
	}
}

// New creates a Detector with the default dialects.
func New(opts ...Option) *Detector {
	d := &Detector{
		dialects:   DefaultDialects(),
		sampleSize: 500,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a log file and returns the detected dialects.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	type dialectStats struct {
		order      int
		matchCount int
		sampleLine string
		position   Position
	}
	stats := make(map[*Dialect]*dialectStats)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if result.SampledLines == d.sampleSize {
			break
		}
		result.SampledLines++

		for i, dialect := range d.dialects {
			pos, ok := dialect.Match(line)
			if !ok {
				continue
			}
			s := stats[dialect]
			if s == nil {
				s = &dialectStats{order: i, sampleLine: line, position: pos}
				stats[dialect] = s
			}
			s.matchCount++
		}
	}

	order := make(map[*Dialect]int, len(stats))
	for dialect, s := range stats {
		order[dialect] = s.order
		result.Matches = append(result.Matches, Match{
			Dialect:    dialect,
			Confidence: float64(s.matchCount) / float64(result.SampledLines),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			Position:   s.position,
		})
	}

	// Same confidence: the more specific dialect, listed earlier, wins.
	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return order[a.Dialect] < order[b.Dialect]
	})

	if len(result.Matches) > 0 {
		result.MatchedLines = result.Matches[0].MatchCount
	}

	return result
}

// sampleFile reads up to sampleSize non-empty lines from a log file.
// Compressed logs are read the way scan reads them.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	source := scan.NewFileSource([]string{path})
	defer source.Close()

	var lines []string
	for len(lines) < d.sampleSize {
		line, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line.Content) != "" {
			lines = append(lines, line.Content)
		}
	}
	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *Match {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one dialect matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
