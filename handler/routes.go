package handler

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mexc-data/hotwatch/internal/ingest/metrics"
	"github.com/mexc-data/hotwatch/internal/server"
)

// NewMetricsRoute exposes the aggregator's registry in the Prometheus
// exposition format.
func NewMetricsRoute(agg *metrics.Aggregator) server.HttpHandlerResult {
	return server.AsHttpHandler(
		"/metrics",
		promhttp.HandlerFor(agg.Registry(), promhttp.HandlerOpts{}),
	)
}

func NewHealthRoute(handler *HealthHandler) server.HttpHandlerResult {
	return server.AsHttpHandler("/health", handler)
}
