// Package server provides the MCP server context, health endpoints, and HTTP
// transports for the calgate application.
//
// # Key Components
//
// ServerContext holds the shared Calendar API client, the read-only flag,
// and the instrumentation hooks (metrics recorder and audit logger). A single
// client instance is shared by all tools so the process-wide outbound rate
// gate applies to every Calendar API request.
//
// HealthChecker serves /healthz and /readyz endpoints for Kubernetes,
// reflecting readiness and shutdown state.
//
// HTTPServer wraps an MCP server with an SSE or streamable-http transport,
// serves health endpoints on the same listener, and records HTTP request
// metrics.
//
// MetricsServer serves Prometheus metrics on a dedicated port, keeping
// operational metrics off the main application listener.
package server
