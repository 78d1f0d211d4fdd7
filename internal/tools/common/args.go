package common

import "math"

// GetCalendarIDFromArgs extracts the calendar id from request arguments.
// Defaults to "primary" when the argument is absent or empty, matching the
// Calendar API convention for the authenticated user's main calendar.
func GetCalendarIDFromArgs(args map[string]interface{}) string {
	if calendarID, ok := args["calendarId"].(string); ok && calendarID != "" {
		return calendarID
	}
	return "primary"
}

// GetStringArg extracts an optional string argument.
// Returns the empty string when the argument is absent or not a string.
func GetStringArg(args map[string]interface{}, key string) string {
	if value, ok := args[key].(string); ok {
		return value
	}
	return ""
}

// GetBoolArg extracts an optional boolean argument.
// The second return value reports whether the argument was supplied.
func GetBoolArg(args map[string]interface{}, key string) (bool, bool) {
	value, ok := args[key].(bool)
	return value, ok
}

// GetIntArg extracts an optional integer argument as int64.
// JSON numbers arrive as float64; a fractional value is rejected rather than
// truncated. The second return value reports whether a usable integer was
// supplied.
func GetIntArg(args map[string]interface{}, key string) (int64, bool) {
	switch value := args[key].(type) {
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int64(value), true
	case int64:
		return value, true
	case int:
		return int64(value), true
	default:
		return 0, false
	}
}
