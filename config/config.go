package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mexc-data/hotwatch/util/conf"
)

// RunMode selects the input source of the ingest worker.
type RunMode string

const (
	// ModeFile replays a recorded feed file.
	ModeFile RunMode = "file"

	// ModeStream consumes the live exchange websocket stream.
	ModeStream RunMode = "stream"
)

// WorkerConfig describes the hot_ingest worker process.
type WorkerConfig struct {
	// Binary is the path to the worker executable
	Binary string `conf:"binary"`

	// Mode is the input source, one of "file" or "stream"
	Mode string `conf:"mode"`

	// FeedFile is the recorded feed replayed in file mode
	FeedFile string `conf:"feed_file"`

	// Jetstream enables durable publishing in the worker
	Jetstream bool `conf:"jetstream"`
}

var workerDefaults = conf.DefaultConfig{
	"binary":    "ingest/hot_ingest/target/release/hot_ingest",
	"mode":      string(ModeFile),
	"feed_file": "ingest/sample_feed.jsonl",
	"jetstream": true,
}

// NormalizedMode canonicalizes the configured run mode. The legacy "ws"
// spelling is accepted as an alias of "stream".
func (c WorkerConfig) NormalizedMode() (RunMode, error) {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "file":
		return ModeFile, nil
	case "stream", "ws":
		return ModeStream, nil
	}

	return "", fmt.Errorf("unknown worker mode %q", c.Mode)
}

type MexcConfig struct {
	// WSBase is the websocket URL consumed in stream mode
	WSBase string `conf:"ws_base"`
}

var mexcDefaults = conf.DefaultConfig{
	"ws_base": "wss://example.invalid",
}

type SubjectsConfig struct {
	// Raw is the subject prefix for raw market data
	Raw string `conf:"raw"`
}

type NatsConfig struct {
	// Host is the NATS server host
	Host string `conf:"host"`

	// Port is the NATS client port
	Port int `conf:"port"`

	// Subjects holds the subject layout
	Subjects SubjectsConfig `conf:"subjects"`
}

// URL renders the client connection URL handed to the worker.
func (c NatsConfig) URL() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

var natsDefaults = conf.DefaultConfig{
	"host":         "127.0.0.1",
	"port":         4222,
	"subjects.raw": "mexc.raw",
}

type MetricsConfig struct {
	// Host is the bind host of the scrape endpoint
	Host string `conf:"host"`

	// Port is the bind port of the scrape endpoint
	Port int `conf:"port"`

	// H2c enables cleartext http/2 on the scrape endpoint
	H2c bool `conf:"h2c"`
}

var metricsDefaults = conf.DefaultConfig{
	"host": "",
	"port": 8000,
	"h2c":  false,
}

type SupervisorConfig struct {
	// MaxRestarts bounds consecutive crash restarts
	MaxRestarts int `conf:"max_restarts"`

	// Backoff is the fixed delay between worker launches
	Backoff time.Duration `conf:"backoff"`

	// StopTimeout bounds graceful termination before SIGKILL
	StopTimeout time.Duration `conf:"stop_timeout"`

	// DrainGrace bounds the post-exit output drain
	DrainGrace time.Duration `conf:"drain_grace"`
}

var supervisorDefaults = conf.DefaultConfig{
	"max_restarts": 5,
	"backoff":      "3s",
	"stop_timeout": "10s",
	"drain_grace":  "2s",
}

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Worker is the supervised process configuration
	Worker WorkerConfig `conf:"worker"`

	// Mexc holds exchange endpoints
	Mexc MexcConfig `conf:"mexc"`

	// Nats holds backend connection parameters for the worker
	Nats NatsConfig `conf:"nats"`

	// Metrics configures the Prometheus scrape endpoint
	Metrics MetricsConfig `conf:"metrics"`

	// Supervisor configures the restart policy
	Supervisor SupervisorConfig `conf:"supervisor"`
}

// DefaultConfig is the baseline configuration. File, env and flag layers
// override it in that order.
var DefaultConfig = conf.MergeDefaults("",
	conf.DefaultConfig{
		"log_format": "production",
	},
	conf.MergeDefaults("worker", workerDefaults),
	conf.MergeDefaults("mexc", mexcDefaults),
	conf.MergeDefaults("nats", natsDefaults),
	conf.MergeDefaults("metrics", metricsDefaults),
	conf.MergeDefaults("supervisor", supervisorDefaults),
)
