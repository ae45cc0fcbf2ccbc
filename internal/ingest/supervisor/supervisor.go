// Package supervisor restarts the ingest worker under a bounded-retry
// policy and tails its output for telemetry.
package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/mexc-data/hotwatch/config"
	"github.com/mexc-data/hotwatch/internal/ingest/worker"
	"go.uber.org/zap"
)

// Policy is the restart policy of the supervision loop.
type Policy struct {
	// MaxRestarts bounds consecutive crash restarts
	MaxRestarts int

	// Backoff is the fixed delay before a relaunch
	Backoff time.Duration

	// StopTimeout bounds graceful termination before SIGKILL
	StopTimeout time.Duration

	// DrainGrace bounds the post-exit output drain
	DrainGrace time.Duration
}

// PolicyFromConfig extracts the restart policy from the app config.
func PolicyFromConfig(cfg config.Config) Policy {
	return Policy{
		MaxRestarts: cfg.Supervisor.MaxRestarts,
		Backoff:     cfg.Supervisor.Backoff,
		StopTimeout: cfg.Supervisor.StopTimeout,
		DrainGrace:  cfg.Supervisor.DrainGrace,
	}
}

// Supervisor drives worker incarnations under the restart policy. Clean
// exits restart forever; crashes burn restart budget until the loop halts.
type Supervisor struct {
	launcher Launcher
	sink     LineSink
	policy   Policy

	state    atomic.Int32
	attempts atomic.Int32

	log    *zap.Logger
	outLog *zap.Logger
}

func New(launcher Launcher, sink LineSink, policy Policy, log *zap.Logger) *Supervisor {
	return &Supervisor{
		launcher: launcher,
		sink:     sink,
		policy:   policy,
		log:      log.Named("supervisor"),
		outLog:   log.Named("worker.output"),
	}
}

// State returns the current supervision state.
func (s *Supervisor) State() State {
	return State(s.state.Load())
}

// Attempts returns the number of crash restarts consumed so far. Clean
// exits never touch it.
func (s *Supervisor) Attempts() int {
	return int(s.attempts.Load())
}

// Run supervises worker incarnations until the context is cancelled, the
// restart budget is exhausted, or the binary turns out to be missing.
// Cancellation is a normal shutdown and returns nil. Run is not
// reentrant; call it once.
func (s *Supervisor) Run(ctx context.Context) error {
	err := s.run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.setState(StateIdle)
		return nil
	}

	return err
}

func (s *Supervisor) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.setState(StateStarting)

		handle, err := s.launcher.Launch(ctx)
		if err != nil {
			if errors.Is(err, worker.ErrBinaryNotFound) {
				s.setState(StateHalted)
				s.log.Error("worker binary not found, build it: cd ingest/hot_ingest && cargo build --release",
					zap.Error(err),
				)
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			// a failed spawn burns budget like a crash
			s.log.Error("could not launch worker", zap.Error(err))

			if err := s.afterCrash(ctx); err != nil {
				return err
			}
			continue
		}

		status, err := s.watch(ctx, handle)
		if err != nil {
			return err
		}

		if status.Clean() {
			s.setState(StateExitedClean)
			s.log.Info("worker exited cleanly, restarting after backoff",
				zap.Duration("backoff", s.policy.Backoff),
			)

			if err := s.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		s.log.Warn("worker crashed", zap.String("status", status.String()))

		if err := s.afterCrash(ctx); err != nil {
			return err
		}
	}
}

// watch supervises one incarnation until it exits on its own or the
// context asks for shutdown. Worker failures are expressed through the
// returned status; the error reports shutdown only.
func (s *Supervisor) watch(ctx context.Context, handle Handle) (worker.ExitStatus, error) {
	s.setState(StateRunning)

	log := s.log.With(zap.Int("pid", handle.Pid()))
	log.Info("worker running")

	tailDone := make(chan struct{})
	go func() {
		defer close(tailDone)
		tailOutput(handle.Output(), s.sink, s.outLog)
	}()

	select {
	case <-handle.Done():
		// worker exited on its own
	case <-ctx.Done():
		s.stop(handle, log)
	}

	// the process is gone either way, so the status is already decided
	status, _ := handle.Wait(context.Background())

	s.drain(handle, tailDone, log)

	if ctx.Err() != nil {
		return worker.ExitStatus{}, ctx.Err()
	}

	log.Info("worker exited", zap.String("status", status.String()))

	return status, nil
}

// stop terminates one incarnation: process-group SIGTERM, escalating to
// SIGKILL after the stop timeout.
func (s *Supervisor) stop(handle Handle, log *zap.Logger) {
	log.Info("stopping worker", zap.Duration("timeout", s.policy.StopTimeout))

	if err := handle.Terminate(); err != nil {
		log.Warn("terminate failed", zap.Error(err))
	}

	timer := time.NewTimer(s.policy.StopTimeout)
	defer timer.Stop()

	select {
	case <-handle.Done():
		return
	case <-timer.C:
	}

	log.Warn("worker ignored SIGTERM, killing")

	if err := handle.Kill(); err != nil {
		log.Error("kill failed", zap.Error(err))
	}

	<-handle.Done()
}

// drain gives the tail reader a bounded grace period to consume buffered
// output after exit, then force-closes the pipe so the reader cannot
// stall the restart loop.
func (s *Supervisor) drain(handle Handle, tailDone <-chan struct{}, log *zap.Logger) {
	timer := time.NewTimer(s.policy.DrainGrace)
	defer timer.Stop()

	select {
	case <-tailDone:
	case <-timer.C:
		log.Warn("output drain exceeded grace period, closing pipe",
			zap.Duration("grace", s.policy.DrainGrace),
		)
	}

	if err := handle.Close(); err != nil {
		log.Debug("close output", zap.Error(err))
	}

	<-tailDone
}

// afterCrash burns one unit of restart budget and backs off before the
// next launch.
func (s *Supervisor) afterCrash(ctx context.Context) error {
	s.setState(StateExitedCrashed)

	attempts := int(s.attempts.Add(1))

	if attempts > s.policy.MaxRestarts {
		s.setState(StateHalted)
		s.log.Error("too many restarts, giving up",
			zap.Int("attempts", attempts),
			zap.Int("max_restarts", s.policy.MaxRestarts),
		)
		return ErrRestartBudgetExhausted
	}

	s.log.Warn("restarting worker after backoff",
		zap.Int("attempts", attempts),
		zap.Int("max_restarts", s.policy.MaxRestarts),
		zap.Duration("backoff", s.policy.Backoff),
	)

	return s.sleep(ctx)
}

// sleep blocks for the fixed backoff or until the context ends.
func (s *Supervisor) sleep(ctx context.Context) error {
	timer := time.NewTimer(s.policy.Backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Supervisor) setState(st State) {
	s.state.Store(int32(st))
}
