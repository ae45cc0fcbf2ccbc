package server

// HttpConfig configures the listen address of the telemetry HTTP server.
type HttpConfig struct {
	Host string `conf:"host"`
	Port int    `conf:"port"`
	H2c  bool   `conf:"h2c"`
}
