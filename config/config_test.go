package config

import (
	"testing"
	"time"

	"github.com/mexc-data/hotwatch/util/conf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := conf.Parse[Config](conf.ParseOptions{
		Defaults:  DefaultConfig,
		EnvPrefix: "HOTWATCH",
		Validate:  Validate,
	})
	require.NoError(t, err)

	assert.Equal(t, "ingest/hot_ingest/target/release/hot_ingest", cfg.Worker.Binary)
	assert.Equal(t, "file", cfg.Worker.Mode)
	assert.True(t, cfg.Worker.Jetstream)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Nats.URL())
	assert.Equal(t, "mexc.raw", cfg.Nats.Subjects.Raw)
	assert.Equal(t, 8000, cfg.Metrics.Port)
	assert.Equal(t, 5, cfg.Supervisor.MaxRestarts)
	assert.Equal(t, 3*time.Second, cfg.Supervisor.Backoff)
	assert.Equal(t, 10*time.Second, cfg.Supervisor.StopTimeout)
	assert.Equal(t, 2*time.Second, cfg.Supervisor.DrainGrace)
}

func TestParse_EnvModeAlias(t *testing.T) {
	t.Setenv("HOTWATCH__WORKER__MODE", "ws")

	cfg, err := conf.Parse[Config](conf.ParseOptions{
		Defaults:  DefaultConfig,
		EnvPrefix: "HOTWATCH",
		Validate:  Validate,
	})
	require.NoError(t, err)

	mode, err := cfg.Worker.NormalizedMode()
	require.NoError(t, err)
	assert.Equal(t, ModeStream, mode)
}

func TestNormalizedMode(t *testing.T) {
	tests := []struct {
		mode    string
		want    RunMode
		wantErr bool
	}{
		{mode: "file", want: ModeFile},
		{mode: "stream", want: ModeStream},
		{mode: "ws", want: ModeStream},
		{mode: "WS", want: ModeStream},
		{mode: " stream ", want: ModeStream},
		{mode: "tcp", wantErr: true},
		{mode: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := WorkerConfig{Mode: tt.mode}.NormalizedMode()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func validRaw() map[string]any {
	return map[string]any{
		"log_format": "production",
		"worker": map[string]any{
			"binary":    "ingest/hot_ingest/target/release/hot_ingest",
			"mode":      "file",
			"feed_file": "ingest/sample_feed.jsonl",
			"jetstream": true,
		},
		"mexc": map[string]any{
			"ws_base": "wss://example.invalid",
		},
		"nats": map[string]any{
			"host": "127.0.0.1",
			"port": 4222,
			"subjects": map[string]any{
				"raw": "mexc.raw",
			},
		},
		"metrics": map[string]any{
			"host": "",
			"port": 8000,
			"h2c":  false,
		},
		"supervisor": map[string]any{
			"max_restarts": 5,
			"backoff":      "3s",
			"stop_timeout": "10s",
			"drain_grace":  "2s",
		},
	}
}

func TestValidate(t *testing.T) {
	mutate := func(fn func(raw map[string]any)) map[string]any {
		raw := validRaw()
		fn(raw)
		return raw
	}

	tests := []struct {
		name    string
		raw     map[string]any
		wantErr string
	}{
		{
			name: "valid",
			raw:  validRaw(),
		},
		{
			name: "string scalars from env",
			raw: mutate(func(raw map[string]any) {
				raw["nats"].(map[string]any)["port"] = "4222"
				raw["worker"].(map[string]any)["jetstream"] = "true"
			}),
		},
		{
			name: "unknown mode",
			raw: mutate(func(raw map[string]any) {
				raw["worker"].(map[string]any)["mode"] = "banana"
			}),
			wantErr: "worker.mode",
		},
		{
			name: "empty binary",
			raw: mutate(func(raw map[string]any) {
				raw["worker"].(map[string]any)["binary"] = ""
			}),
			wantErr: "worker.binary",
		},
		{
			name: "nats port out of range",
			raw: mutate(func(raw map[string]any) {
				raw["nats"].(map[string]any)["port"] = 70000
			}),
			wantErr: "nats.port",
		},
		{
			name: "nats port zero",
			raw: mutate(func(raw map[string]any) {
				raw["nats"].(map[string]any)["port"] = 0
			}),
			wantErr: "nats.port",
		},
		{
			name: "metrics port zero is allowed",
			raw: mutate(func(raw map[string]any) {
				raw["metrics"].(map[string]any)["port"] = 0
			}),
		},
		{
			name: "negative restart budget",
			raw: mutate(func(raw map[string]any) {
				raw["supervisor"].(map[string]any)["max_restarts"] = -1
			}),
			wantErr: "supervisor.max_restarts",
		},
		{
			name: "malformed backoff",
			raw: mutate(func(raw map[string]any) {
				raw["supervisor"].(map[string]any)["backoff"] = "soon"
			}),
			wantErr: "supervisor.backoff",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.raw)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
