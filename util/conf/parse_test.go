package conf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type workerTestConfig struct {
	Binary  string        `conf:"binary"`
	Mode    string        `conf:"mode"`
	Backoff time.Duration `conf:"backoff"`
}

type testConfig struct {
	LogLevel string           `conf:"log_level"`
	Worker   workerTestConfig `conf:"worker"`
}

func testDefaults() DefaultConfig {
	return DefaultConfig{
		"log_level":      "info",
		"worker.binary":  "/usr/bin/true",
		"worker.mode":    "file",
		"worker.backoff": 3 * time.Second,
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse[testConfig](ParseOptions{
		Defaults: testDefaults(),
	})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/usr/bin/true", cfg.Worker.Binary)
	assert.Equal(t, "file", cfg.Worker.Mode)
	assert.Equal(t, 3*time.Second, cfg.Worker.Backoff)
}

func TestParse_YamlFileOverridesDefaults(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "config.yaml")
	data := "worker:\n  mode: stream\n  backoff: 500ms\n"
	require.NoError(t, os.WriteFile(fileName, []byte(data), 0o644))

	cfg, err := Parse[testConfig](ParseOptions{
		Defaults: testDefaults(),
		FileName: fileName,
	})
	require.NoError(t, err)

	assert.Equal(t, "stream", cfg.Worker.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.Worker.Backoff)

	// untouched keys keep their defaults
	assert.Equal(t, "/usr/bin/true", cfg.Worker.Binary)
}

func TestParse_JsonFileOverridesDefaults(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "config.json")
	data := `{"worker": {"binary": "/opt/worker"}}`
	require.NoError(t, os.WriteFile(fileName, []byte(data), 0o644))

	cfg, err := Parse[testConfig](ParseOptions{
		Defaults: testDefaults(),
		FileName: fileName,
	})
	require.NoError(t, err)

	assert.Equal(t, "/opt/worker", cfg.Worker.Binary)
}

func TestParse_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse[testConfig](ParseOptions{
		Defaults: testDefaults(),
		FileName: filepath.Join(t.TempDir(), "nope.yaml"),
	})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_EnvOverridesFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "config.yaml")
	data := "worker:\n  mode: file\n"
	require.NoError(t, os.WriteFile(fileName, []byte(data), 0o644))

	t.Setenv("HW__WORKER__MODE", "stream")
	t.Setenv("HW__LOG_LEVEL", "debug")

	cfg, err := Parse[testConfig](ParseOptions{
		Defaults:  testDefaults(),
		FileName:  fileName,
		EnvPrefix: "HW",
	})
	require.NoError(t, err)

	assert.Equal(t, "stream", cfg.Worker.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_ValidateSeesMergedConfig(t *testing.T) {
	t.Setenv("HW__WORKER__MODE", "stream")

	var seen map[string]any

	_, err := Parse[testConfig](ParseOptions{
		Defaults:  testDefaults(),
		EnvPrefix: "HW",
		Validate: func(raw map[string]any) error {
			seen = raw
			return nil
		},
	})
	require.NoError(t, err)
	require.NotNil(t, seen)

	worker, ok := seen["worker"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "stream", worker["mode"])
}

func TestParse_ValidateRejects(t *testing.T) {
	wantErr := errors.New("mode must be one of file, stream")

	_, err := Parse[testConfig](ParseOptions{
		Defaults: testDefaults(),
		Validate: func(map[string]any) error {
			return wantErr
		},
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestParse_CliFlagsOverrideEnv(t *testing.T) {
	t.Setenv("HW__WORKER__MODE", "file")

	var (
		cfg      testConfig
		parseErr error
	)

	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode"},
			&cli.DurationFlag{Name: "backoff"},
			&cli.StringFlag{Name: "log-level"},
			&cli.PathFlag{Name: "config"},
		},
		Action: func(ctx *cli.Context) error {
			cfg, parseErr = Parse[testConfig](ParseOptions{
				Cli: ctx,
				CliMap: map[string]string{
					"mode":    "worker.mode",
					"backoff": "worker.backoff",
					"config":  "",
				},
				Defaults:  testDefaults(),
				EnvPrefix: "HW",
			})
			return nil
		},
	}

	err := app.Run([]string{
		"test",
		"--mode", "stream",
		"--backoff", "250ms",
		"--log-level", "warn",
		"--config", "ignored.yaml",
	})
	require.NoError(t, err)
	require.NoError(t, parseErr)

	// mapped flags land on their nested keys and win over env
	assert.Equal(t, "stream", cfg.Worker.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.Backoff)

	// unmapped flags default to their underscored name
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParse_UnsetCliFlagsKeepDefaults(t *testing.T) {
	var (
		cfg      testConfig
		parseErr error
	)

	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Value: "file"},
		},
		Action: func(ctx *cli.Context) error {
			cfg, parseErr = Parse[testConfig](ParseOptions{
				Cli:      ctx,
				CliMap:   map[string]string{"mode": "worker.mode"},
				Defaults: DefaultConfig{"worker.mode": "stream"},
			})
			return nil
		},
	}

	require.NoError(t, app.Run([]string{"test"}))
	require.NoError(t, parseErr)

	// a flag that was not passed must not clobber the configured value
	assert.Equal(t, "stream", cfg.Worker.Mode)
}
