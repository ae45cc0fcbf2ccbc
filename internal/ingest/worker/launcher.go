// Package worker launches and tracks incarnations of the hot_ingest
// market-data worker.
package worker

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mexc-data/hotwatch/config"
	"go.uber.org/zap"
)

// Launcher spawns worker incarnations with a fixed argument vector derived
// from configuration. Every incarnation gets the same command line.
type Launcher struct {
	binary string
	args   []string

	log *zap.Logger
}

func NewLauncher(cfg config.Config, log *zap.Logger) (*Launcher, error) {
	args, err := buildArgs(cfg)
	if err != nil {
		return nil, err
	}

	return &Launcher{
		binary: cfg.Worker.Binary,
		args:   args,
		log:    log.Named("launcher"),
	}, nil
}

// Binary returns the configured executable path.
func (l *Launcher) Binary() string {
	return l.binary
}

// Args returns a copy of the argument vector passed to every launch.
func (l *Launcher) Args() []string {
	args := make([]string, len(l.args))
	copy(args, l.args)

	return args
}

// Launch starts one worker incarnation. A missing or unusable executable
// yields ErrBinaryNotFound; any other spawn failure yields a *LaunchError.
func (l *Launcher) Launch(ctx context.Context) (*Handle, error) {
	if _, err := exec.LookPath(l.binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, l.binary)
	}

	l.log.Info("starting hot_ingest",
		zap.String("binary", l.binary),
		zap.Strings("args", l.args),
	)

	return launch(ctx, l.binary, l.args, l.log)
}

func buildArgs(cfg config.Config) ([]string, error) {
	mode, err := cfg.Worker.NormalizedMode()
	if err != nil {
		return nil, err
	}

	var args []string

	switch mode {
	case config.ModeFile:
		args = append(args, "--mode", "file", "--file", cfg.Worker.FeedFile)
	case config.ModeStream:
		// the worker binary kept the legacy "ws" spelling on its flags
		args = append(args, "--mode", "ws", "--ws-url", cfg.Mexc.WSBase)
	}

	args = append(args,
		"--nats-url", cfg.Nats.URL(),
		"--subj-prefix", cfg.Nats.Subjects.Raw,
	)

	if cfg.Worker.Jetstream {
		args = append(args, "--jetstream")
	}

	return args, nil
}
