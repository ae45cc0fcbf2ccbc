package daemon

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mexc-data/hotwatch/config"
	"github.com/mexc-data/hotwatch/handler"
	"github.com/mexc-data/hotwatch/internal/ingest/metrics"
	"github.com/mexc-data/hotwatch/internal/ingest/supervisor"
	"github.com/mexc-data/hotwatch/internal/ingest/worker"
	"github.com/mexc-data/hotwatch/internal/server"
	"github.com/mexc-data/hotwatch/util/logging"
)

// Module assembles the supervision daemon: the worker launcher, the
// supervisor loop, the telemetry sink and the HTTP server exposing
// /metrics and /health.
func Module(cfg config.Config) fx.Option {
	return fx.Module(
		"daemon",
		// rename logger for module
		logging.DecorateLogger("daemon"),
		// provide handlers
		handler.Module(),
		// provide server
		server.Module(server.HttpConfig{
			Host: cfg.Metrics.Host,
			Port: cfg.Metrics.Port,
			H2c:  cfg.Metrics.H2c,
		}),
		// provide supervision
		fx.Provide(newLauncher),
		fx.Provide(newMetricsSink),
		fx.Provide(newSupervisor),
		fx.Provide(func(s *supervisor.Supervisor) handler.StatusSource { return s }),
		// run the supervisor for the app lifetime
		fx.Invoke(superviseWorker),
	)
}

func newLauncher(cfg config.Config, log *zap.Logger) (supervisor.Launcher, error) {
	launcher, err := worker.NewLauncher(cfg, log)
	if err != nil {
		return nil, err
	}

	return supervisor.WrapLauncher(launcher), nil
}

func newMetricsSink(agg *metrics.Aggregator, log *zap.Logger) *supervisor.MetricsSink {
	return supervisor.NewMetricsSink(agg, log)
}

func newSupervisor(
	launcher supervisor.Launcher,
	sink *supervisor.MetricsSink,
	cfg config.Config,
	log *zap.Logger,
) *supervisor.Supervisor {
	return supervisor.New(launcher, sink, supervisor.PolicyFromConfig(cfg), log)
}

type superviseParams struct {
	fx.In

	Context    context.Context
	Supervisor *supervisor.Supervisor
	Shutdowner fx.Shutdowner
	Log        *zap.Logger
}

// superviseWorker runs the supervisor loop for the application lifetime.
// A halted supervisor does not stop the app: the metrics endpoint stays
// up so the terminal state remains scrapeable. A missing worker binary
// shuts the app down with exit code 2.
func superviseWorker(params superviseParams, lc fx.Lifecycle) {
	ctx, cancel := context.WithCancel(params.Context)

	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)

				err := params.Supervisor.Run(ctx)
				if err == nil {
					return
				}

				if errors.Is(err, supervisor.ErrRestartBudgetExhausted) {
					params.Log.Error("supervision halted, metrics stay available for post-mortem",
						zap.Error(err),
					)
					return
				}

				code := 1
				if errors.Is(err, worker.ErrBinaryNotFound) {
					code = 2
				}

				params.Log.Error("supervision failed", zap.Error(err))

				if shutdownErr := params.Shutdowner.Shutdown(fx.ExitCode(code)); shutdownErr != nil {
					params.Log.Error("failed to initiate shutdown", zap.Error(shutdownErr))
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()

			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
