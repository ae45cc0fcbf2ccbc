package supervisor

import (
	"context"
	"errors"
	"io"

	"github.com/mexc-data/hotwatch/internal/ingest/worker"
)

// ErrRestartBudgetExhausted is returned by Run once consecutive crashes
// exceed the configured restart budget.
var ErrRestartBudgetExhausted = errors.New("restart budget exhausted")

// State is the observable supervision state.
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateExitedClean
	StateExitedCrashed
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateExitedClean:
		return "exited_clean"
	case StateExitedCrashed:
		return "exited_crashed"
	case StateHalted:
		return "halted"
	}

	return "unknown"
}

// Handle is the supervisor's view of one worker incarnation.
type Handle interface {
	Pid() int
	Output() io.ReadCloser
	Done() <-chan struct{}
	Wait(ctx context.Context) (worker.ExitStatus, error)
	Terminate() error
	Kill() error
	Close() error
}

// Launcher spawns worker incarnations.
type Launcher interface {
	Launch(ctx context.Context) (Handle, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context) (Handle, error)

func (f LauncherFunc) Launch(ctx context.Context) (Handle, error) {
	return f(ctx)
}

// WrapLauncher adapts the concrete process launcher to the supervisor's
// Launcher interface.
func WrapLauncher(l *worker.Launcher) Launcher {
	return LauncherFunc(func(ctx context.Context) (Handle, error) {
		h, err := l.Launch(ctx)
		if err != nil {
			return nil, err
		}

		return h, nil
	})
}

// LineSink consumes each worker output line after it has been echoed to
// the operational log.
type LineSink interface {
	ConsumeLine(line string)
}
