package instrumentation

import (
	"context"
	"time"
)

// ClientObserver forwards calendar client request notifications to the
// metrics layer. It satisfies the client package's observer interface so the
// client stays free of instrumentation imports.
type ClientObserver struct {
	metrics *Metrics
}

// NewClientObserver creates an observer backed by the given metrics.
func NewClientObserver(metrics *Metrics) *ClientObserver {
	return &ClientObserver{metrics: metrics}
}

// RequestCompleted records one calendar API request with its outcome.
func (o *ClientObserver) RequestCompleted(ctx context.Context, operation, calendarID, status string, statusCode int, duration time.Duration) {
	o.metrics.RecordCalendarAPIRequest(ctx, operation, calendarID, status, duration)
}

// ThrottleRetried counts a throttle retry for the operation.
func (o *ClientObserver) ThrottleRetried(ctx context.Context, operation string) {
	o.metrics.RecordThrottleRetry(ctx, operation)
}

// RateGateWaited records the time a request spent in the rate gate.
func (o *ClientObserver) RateGateWaited(ctx context.Context, wait time.Duration) {
	o.metrics.RecordRateGateWait(ctx, wait)
}
