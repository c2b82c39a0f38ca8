// Package telemetry wires OpenTelemetry traces and metrics for aitri.
//
// Telemetry is off unless AITRI_OTEL_ENABLED=true; when off the global
// providers are no-ops and instrumented code pays nothing.
//
//	AITRI_OTEL_ENABLED=true          turn telemetry on
//	AITRI_OTEL_STDOUT=true           pretty-print spans and metrics to stderr
//	OTEL_EXPORTER_OTLP_ENDPOINT=...  OTLP/HTTP collector (host:port)
//	OTEL_EXPORTER_OTLP_TRACES_ENDPOINT, OTEL_EXPORTER_OTLP_METRICS_ENDPOINT
//	                                 per-signal overrides
//	OTEL_SERVICE_NAME=...            override the service name
//
// Nothing is ever written to stdout: it carries command output and, for
// `aitri mcp`, the protocol.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/aitri-dev/aitri"

var shutdownFns []func(context.Context) error

// settings is the environment-derived exporter configuration.
type settings struct {
	stdout          bool
	traceEndpoint   string
	metricsEndpoint string
	serviceName     string
}

func settingsFromEnv(serviceName string) settings {
	s := settings{
		stdout:          os.Getenv("AITRI_OTEL_STDOUT") == "true",
		traceEndpoint:   firstNonEmpty(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"), os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		metricsEndpoint: firstNonEmpty(os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"), os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		serviceName:     firstNonEmpty(os.Getenv("OTEL_SERVICE_NAME"), serviceName),
	}
	// Enabled without any exporter still shows spans somewhere.
	if !s.stdout && s.traceEndpoint == "" && s.metricsEndpoint == "" {
		s.stdout = true
	}
	return s
}

// Enabled reports whether AITRI_OTEL_ENABLED=true.
func Enabled() bool {
	return os.Getenv("AITRI_OTEL_ENABLED") == "true"
}

// Init installs the global providers. Disabled telemetry installs no-ops.
func Init(ctx context.Context, serviceName, version string) error {
	if !Enabled() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
		return nil
	}
	s := settingsFromEnv(serviceName)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(s.serviceName),
			semconv.ServiceVersionKey.String(version),
		),
		resource.WithHost(),
		resource.WithProcess(),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, s, res)
	if err != nil {
		return fmt.Errorf("telemetry: trace provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	shutdownFns = append(shutdownFns, tp.Shutdown)

	mp, err := newMeterProvider(ctx, s, res)
	if err != nil {
		return fmt.Errorf("telemetry: metric provider: %w", err)
	}
	otel.SetMeterProvider(mp)
	shutdownFns = append(shutdownFns, mp.Shutdown)
	return nil
}

// Tracer returns a tracer for scope, defaulting to the module path.
func Tracer(scope string) trace.Tracer {
	return otel.Tracer(firstNonEmpty(scope, instrumentationScope))
}

// Meter returns a meter for scope, defaulting to the module path.
func Meter(scope string) metric.Meter {
	return otel.Meter(firstNonEmpty(scope, instrumentationScope))
}

// Shutdown flushes and stops the providers. Call once at exit.
func Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range shutdownFns {
		errs = append(errs, fn(ctx))
	}
	shutdownFns = nil
	return errors.Join(errs...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
