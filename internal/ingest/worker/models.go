package worker

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// ErrBinaryNotFound marks a missing or unusable worker executable. It is
// fatal: the supervisor gives up instead of burning restart budget on a
// binary that will never start.
var ErrBinaryNotFound = errors.New("worker binary not found")

// LaunchError wraps a spawn failure other than a missing binary. The
// supervisor counts it against the restart budget like a crashed
// incarnation.
type LaunchError struct {
	err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch worker: %v", e.err)
}

func (e *LaunchError) Unwrap() error {
	return e.err
}

// ExitStatus describes how one worker incarnation ended. Exactly one of
// Code and Signal is set.
type ExitStatus struct {
	// Code is the exit code of the process
	Code *int

	// Signal is the signal that caused the process to exit
	Signal *int
}

// Clean reports whether the incarnation exited voluntarily with code 0.
// Signal-terminated incarnations are never clean.
func (s ExitStatus) Clean() bool {
	return s.Code != nil && *s.Code == 0
}

func (s ExitStatus) String() string {
	switch {
	case s.Code != nil:
		return fmt.Sprintf("exit code %d", *s.Code)
	case s.Signal != nil:
		return fmt.Sprintf("signal %d", *s.Signal)
	}

	return "unknown"
}

func decodeExitStatus(err error) ExitStatus {
	var cell int
	var exitStatus *int
	var signo *int

	if err == nil {
		// the process exited successfully, set the exit code to 0
		exitStatus = &cell
	} else if exitError, ok := err.(*exec.ExitError); ok {
		// the process exited with an error
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			if code := status.ExitStatus(); code >= 0 {
				// the process exited with an exit code
				cell = code
				exitStatus = &cell
			} else {
				// the process was terminated by a signal
				cell = int(status.Signal())
				signo = &cell
			}
		}
	}

	if signo == nil && exitStatus == nil {
		// could not determine the exit status or signal,
		// set exit status to 1
		cell = 1
		exitStatus = &cell
	}

	return ExitStatus{Code: exitStatus, Signal: signo}
}
