package app

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/mexc-data/hotwatch/config"
	"github.com/mexc-data/hotwatch/internal/ingest/metrics"
	"github.com/mexc-data/hotwatch/internal/shell"
	"github.com/mexc-data/hotwatch/util/conf"
	"github.com/mexc-data/hotwatch/util/logging"
)

func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide the telemetry aggregator
		fx.Provide(newAggregator),
	)

	return shell.New(log, sharedModule), nil
}

func newAggregator() *metrics.Aggregator {
	return metrics.NewAggregator(nil)
}
