package instrumentation

import (
	"context"
	"testing"
)

func TestNewProvider_Disabled(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = false

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewProvider() returned error: %v", err)
	}

	if provider.Enabled() {
		t.Error("Expected disabled provider")
	}
	if provider.Metrics() == nil {
		t.Error("Expected no-op metrics recorder, got nil")
	}
	if provider.Tracer("test") == nil {
		t.Error("Expected no-op tracer, got nil")
	}

	// Recording against the no-op recorder must not panic.
	provider.Metrics().RecordToolInvocation(context.Background(), "calendar_list_events", StatusSuccess, 0)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() returned error: %v", err)
	}
}

func TestNewProvider_StdoutExporters(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = true
	config.MetricsExporter = ExporterStdout
	config.TracingExporter = ExporterNone

	provider, err := NewProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewProvider() returned error: %v", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() returned error: %v", err)
		}
	}()

	if !provider.Enabled() {
		t.Error("Expected enabled provider")
	}
	if provider.Metrics() == nil {
		t.Fatal("Expected metrics recorder")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("Expected no prometheus handler with stdout exporter")
	}
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = true
	config.MetricsExporter = "statsd"

	if _, err := NewProvider(context.Background(), config); err == nil {
		t.Error("Expected error for unsupported metrics exporter")
	}
}

func TestNewProvider_OTLPRequiresEndpoint(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = true
	config.MetricsExporter = ExporterOTLP
	config.OTLPEndpoint = ""

	if _, err := NewProvider(context.Background(), config); err == nil {
		t.Error("Expected error for OTLP exporter without endpoint")
	}
}
