package instrumentation

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Always use these helpers when recording metrics with calendar identifiers.

// Clamped calendar label values.
const (
	CalendarPrimary = "primary"
	CalendarOther   = "other"
)

// ClampCalendarID reduces a calendar identifier to a bounded label value.
// Calendar identifiers are email addresses or opaque ids, so using them
// directly as metric labels would create one series per calendar.
//
// Example:
//
//	ClampCalendarID("primary")            // "primary"
//	ClampCalendarID("team@example.com")   // "other"
//	ClampCalendarID("")                   // "unknown"
func ClampCalendarID(calendarID string) string {
	switch calendarID {
	case "":
		return StatusUnknown
	case CalendarPrimary:
		return CalendarPrimary
	default:
		return CalendarOther
	}
}

// Common operation types for calendar API metrics.
// Status constants are defined in config.go.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationQuickAdd = "quickAdd"
	OperationFreeBusy = "freeBusy"
	OperationColors   = "colors"
)
