package metrics

import (
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	GenerationRequestsTotal   metric.Int64Counter
	GenerationAttemptsTotal   metric.Int64Counter
	GenerationFailuresTotal   metric.Int64Counter
	GenerationDurationSeconds metric.Float64Histogram
	DbQueryDurationSeconds    metric.Float64Histogram
	DbQueryErrorsTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	initErr    error
	once       sync.Once
)

// NewAppMetrics creates every instrument on meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	if m.GenerationRequestsTotal, err = meter.Int64Counter(
		"generation_requests_total",
		metric.WithDescription("Total number of place generations started"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("generation_requests_total: %w", err)
	}

	if m.GenerationAttemptsTotal, err = meter.Int64Counter(
		"generation_attempts_total",
		metric.WithDescription("Total number of calls made to the model provider, retries included"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, fmt.Errorf("generation_attempts_total: %w", err)
	}

	if m.GenerationFailuresTotal, err = meter.Int64Counter(
		"generation_failures_total",
		metric.WithDescription("Total number of generations that ended in an error, by kind"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, fmt.Errorf("generation_failures_total: %w", err)
	}

	if m.GenerationDurationSeconds, err = meter.Float64Histogram(
		"generation_duration_seconds",
		metric.WithDescription("Duration of a full generation including retries"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("generation_duration_seconds: %w", err)
	}

	if m.DbQueryDurationSeconds, err = meter.Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("db_query_duration_seconds: %w", err)
	}

	if m.DbQueryErrorsTotal, err = meter.Int64Counter(
		"db_query_errors_total",
		metric.WithDescription("Total number of database query errors"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, fmt.Errorf("db_query_errors_total: %w", err)
	}

	return m, nil
}

// Noop returns instruments that record nothing.
func Noop() *AppMetrics {
	m, err := NewAppMetrics(noop.NewMeterProvider().Meter("noop"))
	if err != nil {
		panic(err)
	}
	return m
}

// InitAppMetrics initializes the global instruments once, using the meter
// from the globally configured MeterProvider.
func InitAppMetrics() (*AppMetrics, error) {
	once.Do(func() {
		appMetrics, initErr = NewAppMetrics(otel.GetMeterProvider().Meter("TravelAiApi"))
	})
	return appMetrics, initErr
}
