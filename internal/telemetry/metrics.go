package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/json-format"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Build metrics
	BuildsTotal      metric.Int64Counter
	BuildErrorsTotal metric.Int64Counter
	BuildDuration    metric.Float64Histogram
	OutputFilesTotal metric.Int64Counter

	// Dev server metrics
	RequestsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.BuildsTotal, _ = meter.Int64Counter(
		"jsonformat.builds.total",
		metric.WithDescription("Total number of asset builds, including watch mode rebuilds"),
		metric.WithUnit("{build}"),
	)

	m.BuildErrorsTotal, _ = meter.Int64Counter(
		"jsonformat.builds.errors.total",
		metric.WithDescription("Total number of bundler errors reported by builds"),
		metric.WithUnit("{error}"),
	)

	m.BuildDuration, _ = meter.Float64Histogram(
		"jsonformat.builds.duration",
		metric.WithDescription("Duration of asset builds"),
		metric.WithUnit("ms"),
	)

	m.OutputFilesTotal, _ = meter.Int64Counter(
		"jsonformat.builds.output_files.total",
		metric.WithDescription("Total number of output files written by builds"),
		metric.WithUnit("{file}"),
	)

	m.RequestsTotal, _ = meter.Int64Counter(
		"jsonformat.devserver.requests.total",
		metric.WithDescription("Total number of requests served by the development server"),
		metric.WithUnit("{request}"),
	)

	return m
}
