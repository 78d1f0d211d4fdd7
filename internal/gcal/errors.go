package gcal

import "fmt"

// APIError is returned when the Calendar service answers with a non-success
// status after the retry policy is exhausted. The response body is carried
// verbatim and not interpreted further.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar API error: status %d: %s", e.StatusCode, e.Body)
}

// IsThrottled reports whether the error is a rate-limit rejection that
// survived the single retry.
func (e *APIError) IsThrottled() bool {
	return e.StatusCode == 429
}
