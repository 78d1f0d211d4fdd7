// Package instrumentation provides OpenTelemetry-based observability for the
// calgate server: metrics, distributed tracing, and audit logging for MCP tool
// invocations and Calendar API requests.
//
// # Components
//
//   - Provider: owns the OpenTelemetry meter and tracer providers, configured
//     via environment variables (see DefaultConfig)
//   - Metrics: typed recorders for HTTP, Calendar API, rate-gate, and tool metrics
//   - ToolInvocation / AuditLogger: structured audit trail for tool calls
//   - Cardinality helpers: clamp calendar identifiers before using them as labels
//
// # Exporters
//
// Metrics can be exported via Prometheus (default), OTLP, or stdout. Tracing is
// disabled by default and can be enabled via OTLP or stdout exporters.
//
// # Usage
//
//	config := instrumentation.DefaultConfig()
//	config.ServiceVersion = version
//	provider, err := instrumentation.NewProvider(ctx, config)
//	if err != nil {
//	    return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordCalendarAPIRequest(ctx,
//	    instrumentation.OperationList, "primary",
//	    instrumentation.StatusSuccess, elapsed)
//
// # Cardinality
//
// Calendar identifiers are email addresses or opaque ids. Metric labels clamp
// them to "primary"/"other" unless METRICS_DETAILED_LABELS is set, keeping the
// series count bounded regardless of how many calendars a deployment touches.
package instrumentation
