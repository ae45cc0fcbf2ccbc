package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mexc-data/hotwatch/config"
	"github.com/mexc-data/hotwatch/internal/shell"
	"github.com/mexc-data/hotwatch/util/conf"
	"github.com/mexc-data/hotwatch/util/logging"
)

var (
	appName  = "hotwatch"
	appUsage = `Supervises the hot_ingest market data worker, extracts JET_ACK
and PUB telemetry from its output and serves it as Prometheus
metrics.`

	// cliConfigMap maps flag names to config keys. Flags mapped to the
	// empty string never reach the config.
	cliConfigMap = map[string]string{
		"config":       "",
		"mode":         "worker.mode",
		"binary":       "worker.binary",
		"feed-file":    "worker.feed_file",
		"jetstream":    "worker.jetstream",
		"ws-base":      "mexc.ws_base",
		"nats-host":    "nats.host",
		"nats-port":    "nats.port",
		"subj-prefix":  "nats.subjects.raw",
		"metrics-host": "metrics.host",
		"metrics-port": "metrics.port",
		"h2c":          "metrics.h2c",
		"max-restarts": "supervisor.max_restarts",
		"backoff":      "supervisor.backoff",
	}

	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Args:            true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config",
				Usage:   "load configuration from a yaml, json or dotenv file.",
				Aliases: []string{"f"},
				EnvVars: []string{"HOTWATCH_CONFIG"},
			},
			// worker flags
			&cli.StringFlag{
				Name:     "mode",
				Usage:    "the worker run mode. Options: file, stream.",
				Aliases:  []string{"m"},
				Category: "worker",
				EnvVars:  []string{"HOTWATCH_MODE"},
			},
			&cli.PathFlag{
				Name:     "binary",
				Usage:    "path to the hot_ingest worker binary.",
				Aliases:  []string{"b"},
				Category: "worker",
				EnvVars:  []string{"HOTWATCH_BINARY"},
			},
			&cli.PathFlag{
				Name:     "feed-file",
				Usage:    "the recorded feed to replay in file mode.",
				Category: "worker",
				EnvVars:  []string{"HOTWATCH_FEED_FILE"},
			},
			&cli.BoolFlag{
				Name:     "jetstream",
				Usage:    "publish through JetStream for durable acks.",
				Category: "worker",
				EnvVars:  []string{"HOTWATCH_JETSTREAM"},
			},
			&cli.StringFlag{
				Name:     "ws-base",
				Usage:    "the websocket endpoint to ingest from in stream mode.",
				Category: "worker",
				EnvVars:  []string{"HOTWATCH_WS_BASE"},
			},
			// nats flags
			&cli.StringFlag{
				Name:     "nats-host",
				Usage:    "the NATS host the worker publishes to.",
				Category: "nats",
				EnvVars:  []string{"HOTWATCH_NATS_HOST"},
			},
			&cli.UintFlag{
				Name:     "nats-port",
				Usage:    "the NATS port the worker publishes to.",
				Category: "nats",
				EnvVars:  []string{"HOTWATCH_NATS_PORT"},
			},
			&cli.StringFlag{
				Name:     "subj-prefix",
				Usage:    "the subject prefix for raw market data.",
				Category: "nats",
				EnvVars:  []string{"HOTWATCH_SUBJ_PREFIX"},
			},
			// metrics flags
			&cli.StringFlag{
				Name:     "metrics-host",
				Usage:    "the host the metrics endpoint listens on.",
				Category: "metrics",
				EnvVars:  []string{"HOTWATCH_METRICS_HOST"},
			},
			&cli.UintFlag{
				Name:     "metrics-port",
				Usage:    "the port the metrics endpoint listens on.",
				Category: "metrics",
				EnvVars:  []string{"HOTWATCH_METRICS_PORT"},
			},
			&cli.BoolFlag{
				Name:     "h2c",
				Usage:    "enable HTTP/2 cleartext upgrade on the metrics endpoint.",
				Category: "metrics",
				EnvVars:  []string{"HOTWATCH_H2C"},
			},
			// supervisor flags
			&cli.IntFlag{
				Name:     "max-restarts",
				Usage:    "crashes tolerated before the supervisor gives up.",
				Category: "supervisor",
				EnvVars:  []string{"HOTWATCH_MAX_RESTARTS"},
			},
			&cli.DurationFlag{
				Name:     "backoff",
				Usage:    "delay between a worker exit and the next launch.",
				Category: "supervisor",
				EnvVars:  []string{"HOTWATCH_BACKOFF"},
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := createLogger(ctx)
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			// parse config from defaults, file, env and flags
			cfg, err := conf.Parse[config.Config](conf.ParseOptions{
				Cli:       ctx,
				CliMap:    cliConfigMap,
				Defaults:  config.DefaultConfig,
				EnvPrefix: "HOTWATCH",
				FileName:  ctx.Path("config"),
				Validate:  config.Validate,
				Log:       log,
			})
			if err != nil {
				return err
			}

			// inject the config into the cli context
			ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

			return nil
		},
		After: func(ctx *cli.Context) error {
			log, err := logging.LoggerFromContext(ctx.Context)
			if err != nil {
				return err
			}

			log.Sync()

			return nil
		},
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

// Execute runs the cli app and returns the process exit code.
func Execute(params ExecuteParams) int {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	return run(context.Background(), os.Args)
}

func run(ctx context.Context, args []string) int {
	err := rootApp.RunContext(ctx, args)

	// if app exited without error, return
	if err == nil {
		return 0
	}

	// propagate explicit exit codes from the shell
	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}

	// otherwise, report and exit with code 1
	fmt.Fprintf(os.Stderr, "exit error: %s\n", err.Error())
	return 1
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	level := getLogLevelFromCLI(ctx)
	format := getLogFormatFromCLI(ctx)

	var config zap.Config
	if format == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": "hotwatch",
	}

	config.Level = level

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	format := ctx.String("log-format")
	if format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) zap.AtomicLevel {
	lvl := ctx.String("log-level")

	if atom, err := zap.ParseAtomicLevel(lvl); err == nil {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel)
}
