package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mexc-data/hotwatch/config"
	"github.com/mexc-data/hotwatch/util/conf"
)

var (
	configCmdDescription = `The config command resolves the effective configuration from
defaults, config file, environment and flags, validates it,
and prints the values the run command would use.`
	configCmd = &cli.Command{
		Name:        "config",
		Usage:       "Print the resolved configuration.",
		Description: configCmdDescription,
		Action:      configAction,
	}
)

func configAction(ctx *cli.Context) error {
	// an explicitly requested config file must exist
	if name := ctx.Path("config"); name != "" {
		if _, err := os.Stat(name); err != nil {
			return cli.Exit(fmt.Sprintf("config missing: %s", name), 2)
		}
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return err
	}

	mode, err := cfg.Worker.NormalizedMode()
	if err != nil {
		return err
	}

	fmt.Printf("worker binary:  %s\n", cfg.Worker.Binary)
	fmt.Printf("worker mode:    %s\n", mode)
	fmt.Printf("feed file:      %s\n", cfg.Worker.FeedFile)
	fmt.Printf("jetstream:      %t\n", cfg.Worker.Jetstream)
	fmt.Printf("mexc ws base:   %s\n", cfg.Mexc.WSBase)
	fmt.Printf("nats url:       %s\n", cfg.Nats.URL())
	fmt.Printf("subject prefix: %s\n", cfg.Nats.Subjects.Raw)
	fmt.Printf("metrics:        %s:%d\n", cfg.Metrics.Host, cfg.Metrics.Port)
	fmt.Printf("max restarts:   %d\n", cfg.Supervisor.MaxRestarts)
	fmt.Printf("backoff:        %s\n", cfg.Supervisor.Backoff)

	return nil
}

func init() {
	rootApp.Commands = append(rootApp.Commands, configCmd)
}
