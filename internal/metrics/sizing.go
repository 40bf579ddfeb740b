package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SizingMetrics holds the instruments recorded per evaluation: how many
// decisions were made (by outcome and reject reason), how many evaluations
// failed outright, and how long each evaluation took.
type SizingMetrics struct {
	decisions   metric.Int64Counter
	hardFails   metric.Int64Counter
	evalSeconds metric.Float64Histogram
}

func NewSizingMetrics(meterName string) (*SizingMetrics, error) {
	meter := otel.Meter(meterName)

	decisions, err := meter.Int64Counter(
		"sizing_decisions_total",
		metric.WithDescription("Decisions produced by the profitability engine"),
	)
	if err != nil {
		return nil, err
	}

	hardFails, err := meter.Int64Counter(
		"sizing_hard_failures_total",
		metric.WithDescription("Evaluations that failed with an error"),
	)
	if err != nil {
		return nil, err
	}

	evalSeconds, err := meter.Float64Histogram(
		"sizing_evaluation_seconds",
		metric.WithDescription("Wall time of one engine evaluation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &SizingMetrics{
		decisions:   decisions,
		hardFails:   hardFails,
		evalSeconds: evalSeconds,
	}, nil
}

// RecordDecision counts one decision. reason is empty for proceeds.
func (m *SizingMetrics) RecordDecision(ctx context.Context, proceed bool, reason string, elapsed time.Duration) {
	outcome := "reject"
	if proceed {
		outcome = "proceed"
	}

	attrs := []attribute.KeyValue{attribute.String("outcome", outcome)}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}

	m.decisions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.evalSeconds.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
}

// RecordHardFailure counts one evaluation that returned an error.
func (m *SizingMetrics) RecordHardFailure(ctx context.Context, elapsed time.Duration) {
	m.hardFails.Add(ctx, 1)
	m.evalSeconds.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(attribute.String("outcome", "error")))
}
