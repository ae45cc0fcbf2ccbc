package worker

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"

	"go.uber.org/zap"
)

// Handle is one running incarnation of the worker process. It owns the
// merged stdout+stderr pipe and the exit-status future.
type Handle struct {
	pid    int
	cmd    *exec.Cmd
	output *os.File

	termination chan struct{}
	status      ExitStatus

	log *zap.Logger
}

func launch(ctx context.Context, binary string, args []string, log *zap.Logger) (*Handle, error) {
	// exit early if the context is already cancelled
	if err := ctx.Err(); err != nil {
		return nil, &LaunchError{err: err}
	}

	cmd := exec.Command(binary, args...)

	// one pipe carries both stdout and stderr, so telemetry and
	// diagnostics stay in emission order
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, &LaunchError{err: err}
	}

	cmd.Stdout = pw
	cmd.Stderr = pw

	initCmd(cmd)

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, &LaunchError{err: err}
	}

	// the child owns its copy of the write end; dropping ours makes the
	// read end report EOF once the process group is gone
	pw.Close()

	log = log.Named("proc").With(zap.Int("pid", cmd.Process.Pid))

	h := &Handle{
		pid:         cmd.Process.Pid,
		cmd:         cmd,
		output:      pr,
		termination: make(chan struct{}),
		log:         log,
	}

	go func() {
		// block until the process exits
		err := cmd.Wait()

		h.status = decodeExitStatus(err)
		close(h.termination)
	}()

	return h, nil
}

// Pid returns the process id of this incarnation.
func (h *Handle) Pid() int {
	return h.pid
}

// Output returns the merged stdout+stderr stream. It reports EOF once
// the process group has exited and the pipe is drained.
func (h *Handle) Output() io.ReadCloser {
	return h.output
}

// Done is closed once the process has exited and its status is available.
func (h *Handle) Done() <-chan struct{} {
	return h.termination
}

// Wait blocks until the process exits or ctx is cancelled. Observing the
// exit status is idempotent; repeated and concurrent calls all succeed.
func (h *Handle) Wait(ctx context.Context) (ExitStatus, error) {
	select {
	case <-ctx.Done():
		return ExitStatus{}, ctx.Err()
	case <-h.termination:
		return h.status, nil
	}
}

// Terminate asks the worker's process group to shut down.
func (h *Handle) Terminate() error {
	return h.signal(syscall.SIGTERM)
}

// Kill forcibly ends the worker's process group.
func (h *Handle) Kill() error {
	return h.signal(syscall.SIGKILL)
}

func (h *Handle) signal(sig syscall.Signal) error {
	// signalling is a no-op once the process has exited
	select {
	case <-h.termination:
		h.log.Debug("process already terminated")
		return nil
	default:
	}

	h.log.Info("sending signal", zap.Stringer("signal", sig))

	return h.signalGroup(sig)
}

// Close releases the parent's read end of the output pipe, unblocking a
// tail reader that is still mid-read.
func (h *Handle) Close() error {
	return h.output.Close()
}
