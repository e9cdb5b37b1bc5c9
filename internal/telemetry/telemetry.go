// Package telemetry wires OpenTelemetry tracing and metrics for confide.
//
// Traces and metrics are exported as JSON lines into size-rotated files next
// to the debug log. When telemetry is disabled every instrument is a no-op, so
// callers never need to check.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/zhubert/confide/internal/logger"
)

const (
	serviceName     = "confide"
	instrumentation = "github.com/zhubert/confide"

	TracesFile  = "confide-traces.jsonl"
	MetricsFile = "confide-metrics.jsonl"
)

// Options controls telemetry initialization.
type Options struct {
	Enabled        bool
	Dir            string // Directory for the trace and metric files, default /tmp
	ServiceVersion string
	MetricInterval time.Duration // Export period for metrics, default 10s
}

// Provider owns the tracer and meter providers and their shutdown.
type Provider struct {
	tracer   trace.Tracer
	metrics  *Metrics
	shutdown []func(context.Context) error
}

// Init sets up tracing and metrics. A disabled Provider hands out no-op instruments.
func Init(ctx context.Context, opts Options) (*Provider, error) {
	if !opts.Enabled {
		return Disabled(), nil
	}
	if opts.Dir == "" {
		opts.Dir = "/tmp"
	}
	if opts.MetricInterval == 0 {
		opts.MetricInterval = 10 * time.Second
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceFile := logger.RotatingWriter(filepath.Join(opts.Dir, TracesFile))
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricsFile := logger.RotatingWriter(filepath.Join(opts.Dir, MetricsFile))
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricsFile))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(opts.MetricInterval)),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics(mp.Meter(instrumentation))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, err
	}

	logger.WithComponent("telemetry").Info("telemetry enabled", "dir", opts.Dir)

	return &Provider{
		tracer:  tp.Tracer(instrumentation),
		metrics: metrics,
		shutdown: []func(context.Context) error{
			tp.Shutdown,
			mp.Shutdown,
			func(context.Context) error { return traceFile.Close() },
			func(context.Context) error { return metricsFile.Close() },
		},
	}, nil
}

// Disabled returns a Provider whose tracer and metrics do nothing.
func Disabled() *Provider {
	metrics, _ := NewMetrics(metricnoop.NewMeterProvider().Meter(instrumentation))
	return &Provider{
		tracer:  tracenoop.NewTracerProvider().Tracer(instrumentation),
		metrics: metrics,
	}
}

// Tracer returns the tracer for confide spans.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Metrics returns the confide instruments.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Shutdown flushes pending exports and closes the files.
func (p *Provider) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	for _, fn := range p.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Metrics holds the instruments confide records.
type Metrics struct {
	requests    metric.Int64Counter
	duration    metric.Float64Histogram
	typingSteps metric.Int64Counter
}

// NewMetrics creates the confide instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter("confide.requests",
		metric.WithDescription("Backend requests by endpoint and outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("confide.request.duration",
		metric.WithDescription("Backend request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	typingSteps, err := meter.Int64Counter("confide.typing.steps",
		metric.WithDescription("Typing steps applied to assistant replies"))
	if err != nil {
		return nil, fmt.Errorf("failed to create typing counter: %w", err)
	}
	return &Metrics{requests: requests, duration: duration, typingSteps: typingSteps}, nil
}

// RecordRequest counts one backend request and its latency.
func (m *Metrics) RecordRequest(ctx context.Context, endpoint, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordTypingSteps counts steps revealed by a finished typing animation.
func (m *Metrics) RecordTypingSteps(ctx context.Context, steps int) {
	m.typingSteps.Add(ctx, int64(steps))
}
