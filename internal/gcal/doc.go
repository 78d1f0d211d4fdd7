// Package gcal provides a minimal client for the Google Calendar v3 REST API.
//
// The client authenticates every request with a single pre-obtained bearer
// token supplied at construction time; there is no OAuth flow and no token
// refresh. Two cross-cutting policies are applied to every call:
//
//   - a client-wide rate gate that guarantees a minimum spacing between
//     outbound requests (100ms by default, i.e. at most 10 requests/second)
//   - a single delayed retry when the service answers 429 Too Many Requests,
//     honoring the Retry-After header when present
//
// Beyond that the client is a pure request/response mapping: resource payloads
// are (de)serialized as-is, pagination tokens and filters are passed through
// verbatim, and the client never auto-paginates.
//
// Example usage:
//
//	client, err := gcal.NewClient(os.Getenv("GOOGLE_CALENDAR_TOKEN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cal, err := client.GetCalendar(ctx, "primary")
//	if err != nil {
//	    log.Fatal(err)
//	}
package gcal
