// Package runner executes build commands and streams their output into a
// console run.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/ccollicutt/errlink/pkg/console"
	"github.com/ccollicutt/errlink/pkg/exitcode"
)

// NotFoundCode is the exit code reported when the command cannot be started,
// matching what a shell reports for a missing binary.
const NotFoundCode = 127

// MaxLineSize is the longest output line delivered as a single line.
const MaxLineSize = 1024 * 1024

// WaitDelay bounds how long output is read after the command has exited.
const WaitDelay = 2 * time.Second

// Options controls how the command is started.
type Options struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env holds extra KEY=VALUE pairs added to the inherited environment.
	Env []string

	// Stdin is connected to the command's standard input when set.
	Stdin io.Reader
}

// Run starts name with args, sends each stdout line to run.Out and each
// stderr line to run.Err, and finishes run with the exit code once the
// command has exited and both streams are drained.
//
// Canceling ctx kills the command. Output pipes still held by its children
// are closed WaitDelay after the command exits. A command that cannot be
// started exits run with NotFoundCode and returns the start error.
func Run(ctx context.Context, run *console.Run, name string, args []string, opts Options) (int, error) {
	stdout := &lineWriter{deliver: run.Out}
	stderr := &lineWriter{deliver: run.Err}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = WaitDelay

	if err := cmd.Start(); err != nil {
		return notStarted(run, name, err)
	}

	err := cmd.Wait()
	stdout.flush()
	stderr.flush()

	code := exitcode.FromError(err)
	if errors.Is(err, exec.ErrWaitDelay) {
		code = cmd.ProcessState.ExitCode()
	}
	if _, err := run.Exit(code); err != nil {
		return code, err
	}
	return code, nil
}

// Feed sends every line of r to run.Err and finishes run with code 0 when r
// is exhausted. It is used to link output that was produced elsewhere.
// Canceling ctx finishes run as interrupted without waiting for r.
func Feed(ctx context.Context, run *console.Run, r io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		scanner := newScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return interrupted(run, err)
		}
		select {
		case <-ctx.Done():
			return interrupted(run, ctx.Err())
		case text := <-lines:
			run.Err(text)
		case err := <-readErr:
			if err != nil {
				_, _ = run.Exit(-1)
				return fmt.Errorf("reading input: %w", err)
			}
			// EOF after cancel is still an interruption.
			if err := ctx.Err(); err != nil {
				return interrupted(run, err)
			}
			_, err = run.Exit(0)
			return err
		}
	}
}

// interrupted finishes run the way an interrupted process is reported.
func interrupted(run *console.Run, err error) error {
	_, _ = run.Exit(exitcode.SignalBase + int(syscall.SIGINT))
	return err
}

func notStarted(run *console.Run, name string, err error) (int, error) {
	run.Err(fmt.Sprintf("%s: %v", name, err))
	_, _ = run.Exit(NotFoundCode)
	if errors.Is(err, exec.ErrNotFound) {
		return NotFoundCode, fmt.Errorf("command %q not found: %w", name, err)
	}
	return NotFoundCode, fmt.Errorf("starting %s: %w", name, err)
}

// lineWriter splits written bytes into lines the way bufio.ScanLines does.
// A line longer than MaxLineSize is delivered in pieces.
type lineWriter struct {
	buf     []byte
	deliver func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.deliver(string(bytes.TrimSuffix(w.buf[:i], []byte("\r"))))
		w.buf = w.buf[i+1:]
	}
	for len(w.buf) >= MaxLineSize {
		w.deliver(string(w.buf[:MaxLineSize]))
		w.buf = w.buf[MaxLineSize:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}

// flush delivers a final line that had no newline.
func (w *lineWriter) flush() {
	if len(w.buf) > 0 {
		w.deliver(string(bytes.TrimSuffix(w.buf, []byte("\r"))))
		w.buf = nil
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return scanner
}
