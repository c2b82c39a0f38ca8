package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestInitDisabledInstallsNoop(t *testing.T) {
	t.Setenv("AITRI_OTEL_ENABLED", "")
	if Enabled() {
		t.Fatal("Enabled() = true with AITRI_OTEL_ENABLED unset")
	}
	if err := Init(context.Background(), "aitri", "test"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(shutdownFns) != 0 {
		t.Errorf("disabled Init registered %d shutdown funcs", len(shutdownFns))
	}

	in := NewInstrument("test", "checkpoint")
	_, op := in.Start(context.Background(), "auto", attribute.String("aitri.phase", "draft"))
	op.SetAttributes(attribute.Bool("aitri.performed", false))
	op.End(errors.New("boom"))
	if err := Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestSettingsFromEnv(t *testing.T) {
	for _, k := range []string{"AITRI_OTEL_STDOUT", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "OTEL_SERVICE_NAME"} {
		t.Setenv(k, "")
	}
	s := settingsFromEnv("aitri")
	if !s.stdout || s.serviceName != "aitri" {
		t.Errorf("no exporters configured: got %+v, want stdout fallback", s)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "traces:4318")
	t.Setenv("OTEL_SERVICE_NAME", "aitri-ci")
	s = settingsFromEnv("aitri")
	if s.stdout {
		t.Error("stdout fallback used with an endpoint configured")
	}
	if s.traceEndpoint != "traces:4318" || s.metricsEndpoint != "collector:4318" {
		t.Errorf("endpoints = %q, %q", s.traceEndpoint, s.metricsEndpoint)
	}
	if s.serviceName != "aitri-ci" {
		t.Errorf("serviceName = %q", s.serviceName)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty = %q, want b", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty = %q, want empty", got)
	}
}
