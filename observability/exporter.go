package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// NewConsoleMetricsExporter serves for test/dev environment.
// Shutdown the provider to flush the last collection.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(interval),
		sdkmetric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewPrometheusMetricsExporter serves for the product environment,
// the stats metrics are fetched by HTTP.
func NewPrometheusMetricsExporter(opts ...prometheus.Option) (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the tree meter of the global provider.
func Meter() metric.Meter {
	return otel.Meter(meterName)
}
