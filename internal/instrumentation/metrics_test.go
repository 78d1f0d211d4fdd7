package instrumentation

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"), detailedLabels)
	if err != nil {
		t.Fatalf("NewMetrics() returned error: %v", err)
	}
	return m, reader
}

func collectedNames(t *testing.T, reader *sdkmetric.ManualReader) map[string]bool {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() returned error: %v", err)
	}

	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			names[metric.Name] = true
		}
	}
	return names
}

func TestRecordCalendarAPIRequest(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordCalendarAPIRequest(ctx, OperationList, "primary", StatusSuccess, 50*time.Millisecond)
	m.RecordCalendarAPIRequest(ctx, OperationGet, "team@example.com", StatusError, 10*time.Millisecond)

	names := collectedNames(t, reader)
	for _, want := range []string{"calendar_api_requests_total", "calendar_api_request_duration_seconds"} {
		if !names[want] {
			t.Errorf("Expected metric %q to be recorded, got %v", want, names)
		}
	}
}

func TestRecordThrottleRetryAndRateGateWait(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordThrottleRetry(ctx, OperationCreate)
	m.RecordRateGateWait(ctx, 80*time.Millisecond)

	names := collectedNames(t, reader)
	for _, want := range []string{"calendar_api_throttle_retries_total", "calendar_api_rate_gate_wait_seconds"} {
		if !names[want] {
			t.Errorf("Expected metric %q to be recorded, got %v", want, names)
		}
	}
}

func TestRecordToolInvocation(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordToolInvocation(ctx, "calendar_list_events", StatusSuccess, 20*time.Millisecond)
	m.RecordToolInvocationWithCalendar(ctx, "calendar_get_event", StatusSuccess, "someone@example.com", 5*time.Millisecond)

	names := collectedNames(t, reader)
	for _, want := range []string{"mcp_tool_invocations_total", "mcp_tool_duration_seconds"} {
		if !names[want] {
			t.Errorf("Expected metric %q to be recorded, got %v", want, names)
		}
	}
}

func TestRecordHTTPRequestAndSessions(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 15*time.Millisecond)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)

	names := collectedNames(t, reader)
	for _, want := range []string{"http_requests_total", "http_request_duration_seconds", "active_sessions"} {
		if !names[want] {
			t.Errorf("Expected metric %q to be recorded, got %v", want, names)
		}
	}
}

func TestUninitializedMetricsAreNoOps(t *testing.T) {
	m := &Metrics{}
	ctx := context.Background()

	// None of these should panic on the zero value.
	m.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	m.RecordCalendarAPIRequest(ctx, OperationList, "primary", StatusSuccess, time.Millisecond)
	m.RecordThrottleRetry(ctx, OperationList)
	m.RecordRateGateWait(ctx, time.Millisecond)
	m.RecordToolInvocation(ctx, "calendar_list_events", StatusSuccess, time.Millisecond)
	m.RecordToolInvocationWithCalendar(ctx, "calendar_get_event", StatusSuccess, "primary", time.Millisecond)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)
}
