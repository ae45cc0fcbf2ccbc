package supervisor

import (
	"github.com/mexc-data/hotwatch/internal/ingest/extract"
	"github.com/mexc-data/hotwatch/internal/ingest/metrics"
	"go.uber.org/zap"
)

// MetricsSink feeds extracted telemetry into the aggregator. Lines that
// carry no telemetry pass through untouched; malformed telemetry counts
// as a publish error.
type MetricsSink struct {
	agg *metrics.Aggregator
	log *zap.Logger
}

func NewMetricsSink(agg *metrics.Aggregator, log *zap.Logger) *MetricsSink {
	return &MetricsSink{
		agg: agg,
		log: log.Named("sink"),
	}
}

func (s *MetricsSink) ConsumeLine(line string) {
	ev, err := extract.Extract(line)
	if err != nil {
		s.log.Warn("telemetry parse error", zap.Error(err))
		s.agg.IncErrors()

		return
	}

	switch ev := ev.(type) {
	case extract.AckEvent:
		s.agg.ObserveAck(ev.AckLatencyUS)
		s.agg.IncPublishes()
	case extract.PublishEvent:
		s.agg.ObserveFlush(ev.FlushLatencyUS)
		s.agg.IncPublishes()
	}
}
