// Package exitcode classifies process exit codes.
package exitcode

import (
	"errors"
	"os/exec"
	"syscall"
)

// Outcome is the classification of a finished process.
type Outcome int

const (
	// Success is exit code 0.
	Success Outcome = iota
	// Failure is any code below 128 other than 0, and is reported to the user.
	Failure
	// Signaled is any code of 128 or above. By convention the process was
	// terminated by a signal (128+N); it is not reported.
	Signaled
)

// SignalBase is added to a signal number to form the exit code of a process
// terminated by that signal.
const SignalBase = 128

// Classify maps an exit code to an Outcome. Negative codes, returned when the
// process could not be waited on, count as failures.
func Classify(code int) Outcome {
	switch {
	case code == 0:
		return Success
	case code >= SignalBase:
		return Signaled
	default:
		return Failure
	}
}

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Signaled:
		return "signaled"
	default:
		return "unknown"
	}
}

// Reported reports whether the outcome should be shown to the user.
func (o Outcome) Reported() bool {
	return o == Failure
}

// FromError extracts the exit code carried by the error returned from
// (*exec.Cmd).Wait. A nil error is code 0. A process killed by a signal maps
// to SignalBase plus the signal number. Errors that carry no exit status
// return -1.
func FromError(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return SignalBase + int(status.Signal())
	}
	return exitErr.ExitCode()
}
