package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ccollicutt/errlink/pkg/exitcode"
	"github.com/ccollicutt/errlink/pkg/location"
	"github.com/ccollicutt/errlink/pkg/notify"
)

var (
	// ErrRunActive is returned by Start while a previous run has not exited.
	ErrRunActive = errors.New("console: a run is already active")

	// ErrAlreadyExited is returned by a second call to Run.Exit.
	ErrAlreadyExited = errors.New("console: run already exited")
)

// FailureMessage is the notification text for a failed run.
const FailureMessage = "execution is failed with exit code: %d"

// Console routes process output to a Surface. It allows one active Run at a
// time and serializes every write to the surface.
type Console struct {
	mu      sync.Mutex
	surface Surface
	active  *Run

	resolver Resolver
	notifier notify.Notifier
	stats    *Stats
	logger   *slog.Logger
	title    string
}

// Option configures a Console.
type Option func(*Console)

// WithResolver sets the file resolver used for error locations.
func WithResolver(r Resolver) Option {
	return func(c *Console) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithNotifier sets where failure notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Console) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithStats records line, location and run counters.
func WithStats(s *Stats) Option {
	return func(c *Console) {
		c.stats = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTitle sets the notification title.
func WithTitle(title string) Option {
	return func(c *Console) {
		c.title = title
	}
}

// New creates a Console presenting on surface. By default paths resolve
// against the working directory and notifications are discarded.
func New(surface Surface, opts ...Option) *Console {
	c := &Console{
		surface:  surface,
		resolver: DirResolver{Base: "."},
		notifier: notify.Discard,
		logger:   slog.New(slog.DiscardHandler),
		title:    notify.DefaultTitle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a run. The surface is cleared and shown, and label, when not
// empty, is printed as system output. The context is used for the failure
// notification sent on exit.
func (c *Console) Start(ctx context.Context, label string) (*Run, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return nil, ErrRunActive
	}

	r := &Run{
		console: c,
		ctx:     ctx,
		label:   label,
		done:    make(chan struct{}),
	}
	c.active = r

	c.surface.Clear()
	c.surface.Show(true)
	if label != "" {
		c.surface.Print(label, System)
		c.surface.Print("\n", System)
	}

	c.logger.Debug("run started", "label", label)
	return r, nil
}

// Run is the handle of a single process run. Exit must be called exactly
// once; Done is closed after it.
type Run struct {
	console *Console
	ctx     context.Context
	label   string

	once    sync.Once
	done    chan struct{}
	code    int
	outcome exitcode.Outcome
}

// Label returns the label the run was started with.
func (r *Run) Label() string {
	return r.label
}

// Out prints a line of standard output.
func (r *Run) Out(line string) {
	c := r.console
	c.stats.line(streamStdout)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.surface.Print(line, Normal)
	c.surface.Print("\n", Normal)
}

// Err prints a line of error output. Lines naming a source location that
// resolves to a file are printed as [lead][link][": "][message].
func (r *Run) Err(line string) {
	c := r.console
	c.stats.line(streamStderr)

	var (
		target   Target
		resolved bool
	)
	loc, ok := location.Parse(line)
	if ok {
		var path string
		path, resolved = c.resolver.Resolve(loc.Path)
		target = Target{Path: path, Line: loc.Line, Column: loc.Column}
		c.stats.location(resolved)
		if !resolved {
			c.logger.Debug("location not resolved", "path", loc.Path)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !resolved {
		c.surface.Print(line, Error)
		c.surface.Print("\n", Error)
		return
	}

	if loc.HasPrefix() {
		c.surface.Print(loc.Lead, Error)
	}
	c.surface.PrintLink(loc.Span, target)
	c.surface.Print(location.Separator, Error)
	c.surface.Print(loc.Message, Error)
	c.surface.Print("\n", Error)
}

// Exit finishes the run with the process exit code. A success hides the
// surface. A failure prints and notifies FailureMessage. Codes of 128 and
// above are not reported. Calls after the first return ErrAlreadyExited.
func (r *Run) Exit(code int) (exitcode.Outcome, error) {
	first := false
	r.once.Do(func() {
		first = true
		r.finish(code)
	})
	if !first {
		return r.outcome, ErrAlreadyExited
	}
	return r.outcome, nil
}

func (r *Run) finish(code int) {
	c := r.console
	outcome := exitcode.Classify(code)
	c.logger.Debug("run exited", "label", r.label, "code", code, "outcome", outcome)

	message := fmt.Sprintf(FailureMessage, code)

	c.mu.Lock()
	if c.active == r {
		c.active = nil
	}
	switch outcome {
	case exitcode.Success:
		c.surface.Hide()
	case exitcode.Failure:
		c.surface.Print(message, System)
		c.surface.Print("\n", System)
	}
	c.mu.Unlock()

	if outcome.Reported() {
		err := c.notifier.Notify(r.ctx, notify.Notification{
			Title:    c.title,
			Message:  message,
			Severity: notify.SeverityError,
			ExitCode: code,
			Command:  r.label,
		})
		if err != nil {
			c.logger.Warn("notification failed", "error", err)
		}
	}

	c.stats.run(outcome)
	r.code = code
	r.outcome = outcome
	close(r.done)
}

// Done is closed once the run has exited.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run exits or ctx is done.
func (r *Run) Wait(ctx context.Context) (exitcode.Outcome, int, error) {
	select {
	case <-r.done:
		return r.outcome, r.code, nil
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	}
}
