package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/mexc-data/hotwatch/app"
	"github.com/mexc-data/hotwatch/app/daemon"
	"github.com/mexc-data/hotwatch/config"
	"github.com/mexc-data/hotwatch/util/conf"
)

var (
	runCmdDescription = `The run command launches the hot_ingest worker and supervises
it for the lifetime of the process. The worker's combined out-
put is tailed for JET_ACK and PUB telemetry lines, which feed
the Prometheus histograms and counters served on /metrics.

Clean worker exits are restarted indefinitely after a fixed
backoff. Crashes consume the restart budget; once the budget
is exhausted the supervisor halts, while the metrics endpoint
stays up for post-mortem scrapes.`
	runCmd = &cli.Command{
		Name:        "run",
		Usage:       "Launch and supervise the ingest worker.",
		Description: runCmdDescription,
		Action:      runAction,
	}
)

func runAction(ctx *cli.Context) error {
	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return err
	}

	return app.Run(ctx.Context, daemon.Module(cfg))
}

func init() {
	rootApp.Commands = append(rootApp.Commands, runCmd)
}
