package console

import (
	"io"

	"github.com/VictoriaMetrics/metrics"

	"github.com/ccollicutt/errlink/pkg/exitcode"
)

const (
	streamStdout = "stdout"
	streamStderr = "stderr"
)

// Stats counts routed lines, found locations and run outcomes. A nil *Stats
// records nothing.
type Stats struct {
	set *metrics.Set

	stdoutLines *metrics.Counter
	stderrLines *metrics.Counter
	resolved    *metrics.Counter
	unresolved  *metrics.Counter
	runs        map[exitcode.Outcome]*metrics.Counter
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	StdoutLines uint64
	StderrLines uint64
	Resolved    uint64
	Unresolved  uint64
	Runs        map[string]uint64
}

// NewStats creates an empty set of counters.
func NewStats() *Stats {
	set := metrics.NewSet()
	s := &Stats{
		set:         set,
		stdoutLines: set.NewCounter(`errlink_lines_total{stream="stdout"}`),
		stderrLines: set.NewCounter(`errlink_lines_total{stream="stderr"}`),
		resolved:    set.NewCounter(`errlink_locations_total{resolved="true"}`),
		unresolved:  set.NewCounter(`errlink_locations_total{resolved="false"}`),
		runs:        make(map[exitcode.Outcome]*metrics.Counter),
	}
	for _, o := range []exitcode.Outcome{exitcode.Success, exitcode.Failure, exitcode.Signaled} {
		s.runs[o] = set.NewCounter(`errlink_runs_total{outcome="` + o.String() + `"}`)
	}
	return s
}

func (s *Stats) line(stream string) {
	if s == nil {
		return
	}
	if stream == streamStdout {
		s.stdoutLines.Inc()
		return
	}
	s.stderrLines.Inc()
}

func (s *Stats) location(resolved bool) {
	if s == nil {
		return
	}
	if resolved {
		s.resolved.Inc()
		return
	}
	s.unresolved.Inc()
}

func (s *Stats) run(o exitcode.Outcome) {
	if s == nil {
		return
	}
	if c, ok := s.runs[o]; ok {
		c.Inc()
	}
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{Runs: make(map[string]uint64)}
	if s == nil {
		return snap
	}
	snap.StdoutLines = s.stdoutLines.Get()
	snap.StderrLines = s.stderrLines.Get()
	snap.Resolved = s.resolved.Get()
	snap.Unresolved = s.unresolved.Get()
	for o, c := range s.runs {
		snap.Runs[o.String()] = c.Get()
	}
	return snap
}

// WritePrometheus writes the counters in Prometheus text format.
func (s *Stats) WritePrometheus(w io.Writer) {
	if s == nil {
		return
	}
	s.set.WritePrometheus(w)
}
