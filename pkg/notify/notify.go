// Package notify delivers user-visible build notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Severity is the level of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DefaultTitle is used when a notification has no title.
const DefaultTitle = "errlink"

// Notification is a single user-visible message.
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`

	// ExitCode is the exit code of the run that produced the notification.
	ExitCode int `json:"exit_code"`

	// Command is the label of the run, usually the command line.
	Command string `json:"command,omitempty"`
}

// Notifier accepts notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, n Notification) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Writer prints notifications as single lines.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Notifier that prints to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify writes "[severity] title: message".
func (w *Writer) Notify(_ context.Context, n Notification) error {
	title := n.Title
	if title == "" {
		title = DefaultTitle
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.w, "[%s] %s: %s\n", n.Severity, title, n.Message)
	return err
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify delivers n to every notifier and joins their errors.
func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every notification.
var Discard Notifier = Func(func(context.Context, Notification) error { return nil })
