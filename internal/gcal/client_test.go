package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"
)

// testClient builds a client against a mock server with a short rate-gate
// interval so tests stay fast.
func testClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{
		WithBaseURL(srv.URL),
		WithMinInterval(time.Millisecond),
	}, opts...)

	client, err := NewClient("test-token", opts...)
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	return client
}

func TestNewClient_EmptyToken(t *testing.T) {
	client, err := NewClient("")
	if err == nil {
		t.Fatal("Expected error for empty token, got nil")
	}
	if client != nil {
		t.Errorf("Expected nil client on error, got %v", client)
	}
}

func TestGetCalendar_ReturnsResourceUnchanged(t *testing.T) {
	var gotPath, gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"primary","summary":"Work"}`))
	})

	client := testClient(t, handler)

	cal, err := client.GetCalendar(context.Background(), "primary")
	if err != nil {
		t.Fatalf("GetCalendar() returned error: %v", err)
	}

	if gotPath != "/calendars/primary" {
		t.Errorf("Expected path /calendars/primary, got %s", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer authorization header, got %q", gotAuth)
	}
	if cal.ID != "primary" {
		t.Errorf("Expected id 'primary', got %q", cal.ID)
	}
	if cal.Summary != "Work" {
		t.Errorf("Expected summary 'Work', got %q", cal.Summary)
	}
}

func TestDeleteEvent_NoContent(t *testing.T) {
	var gotMethod, gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	client := testClient(t, handler)

	if err := client.DeleteEvent(context.Background(), "primary", "abc"); err != nil {
		t.Fatalf("DeleteEvent() returned error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("Expected DELETE, got %s", gotMethod)
	}
	if gotPath != "/calendars/primary/events/abc" {
		t.Errorf("Unexpected path: %s", gotPath)
	}
}

func TestListEvents_OmitsUndefinedFilters(t *testing.T) {
	var gotQuery map[string][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	client := testClient(t, handler)

	_, err := client.ListEvents(context.Background(), "primary", ListEventsOptions{
		TimeMin: "2024-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("ListEvents() returned error: %v", err)
	}

	if len(gotQuery) != 1 {
		t.Errorf("Expected exactly one query parameter, got %d: %v", len(gotQuery), gotQuery)
	}
	if got := gotQuery["timeMin"]; len(got) != 1 || got[0] != "2024-01-01T00:00:00Z" {
		t.Errorf("Expected timeMin=2024-01-01T00:00:00Z, got %v", got)
	}
}

func TestListEvents_PassesDefinedFilters(t *testing.T) {
	var gotQuery map[string][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	client := testClient(t, handler)

	maxResults := int64(25)
	singleEvents := true
	_, err := client.ListEvents(context.Background(), "primary", ListEventsOptions{
		TimeMin:      "2024-01-01T00:00:00Z",
		TimeMax:      "2024-02-01T00:00:00Z",
		Query:        "standup",
		MaxResults:   &maxResults,
		PageToken:    "tok123",
		SingleEvents: &singleEvents,
		OrderBy:      "startTime",
	})
	if err != nil {
		t.Fatalf("ListEvents() returned error: %v", err)
	}

	expected := map[string]string{
		"timeMin":      "2024-01-01T00:00:00Z",
		"timeMax":      "2024-02-01T00:00:00Z",
		"q":            "standup",
		"maxResults":   "25",
		"pageToken":    "tok123",
		"singleEvents": "true",
		"orderBy":      "startTime",
	}
	if len(gotQuery) != len(expected) {
		t.Errorf("Expected %d query parameters, got %d: %v", len(expected), len(gotQuery), gotQuery)
	}
	for key, want := range expected {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Errorf("Expected %s=%s, got %v", key, want, got)
		}
	}
}

func TestQuickAddEvent_TextAsQueryParameter(t *testing.T) {
	var gotText string
	var gotBodyLen int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotText = r.URL.Query().Get("text")
		gotBodyLen = r.ContentLength
		_, _ = w.Write([]byte(`{"id":"ev1","summary":"Lunch tomorrow"}`))
	})

	client := testClient(t, handler)

	event, err := client.QuickAddEvent(context.Background(), "primary", "Lunch tomorrow at noon")
	if err != nil {
		t.Fatalf("QuickAddEvent() returned error: %v", err)
	}
	if gotText != "Lunch tomorrow at noon" {
		t.Errorf("Expected quick-add text in query, got %q", gotText)
	}
	if gotBodyLen > 0 {
		t.Errorf("Expected no request body for quick-add, got %d bytes", gotBodyLen)
	}
	if event.ID != "ev1" {
		t.Errorf("Expected event id 'ev1', got %q", event.ID)
	}
}

func TestCreateEvent_BodyRoundTrip(t *testing.T) {
	var received Event
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		// Echo the body back as the created resource.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&received)
	})

	client := testClient(t, handler)

	canInvite := true
	input := &Event{
		Summary:     "Planning",
		Description: "Quarterly planning session",
		Location:    "Room 4",
		ColorID:     "5",
		Start:       &EventDateTime{DateTime: "2024-03-01T10:00:00Z", TimeZone: "UTC"},
		End:         &EventDateTime{DateTime: "2024-03-01T11:00:00Z", TimeZone: "UTC"},
		Attendees: []*EventAttendee{
			{Email: "a@example.com", Optional: true},
			{Email: "b@example.com"},
		},
		Recurrence:            []string{"RRULE:FREQ=WEEKLY;BYDAY=FR"},
		GuestsCanInviteOthers: &canInvite,
		Reminders: &EventReminders{
			UseDefault: false,
			Overrides:  []*EventReminder{{Method: "popup", Minutes: 10}},
		},
		ConferenceData: json.RawMessage(`{"createRequest":{"requestId":"req-1"}}`),
	}

	created, err := client.CreateEvent(context.Background(), "primary", input)
	if err != nil {
		t.Fatalf("CreateEvent() returned error: %v", err)
	}

	if !reflect.DeepEqual(&received, input) {
		t.Errorf("Request body does not match input.\n got: %+v\nwant: %+v", &received, input)
	}
	if !reflect.DeepEqual(created, input) {
		t.Errorf("Echoed response does not match input.\n got: %+v\nwant: %+v", created, input)
	}
}

func TestThrottle_RetriedExactlyOnce(t *testing.T) {
	var attempts int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":"primary"}`))
	})

	client := testClient(t, handler)

	var slept []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	cal, err := client.GetCalendar(context.Background(), "primary")
	if err != nil {
		t.Fatalf("GetCalendar() returned error: %v", err)
	}
	if cal.ID != "primary" {
		t.Errorf("Expected id 'primary', got %q", cal.ID)
	}
	if attempts != 2 {
		t.Errorf("Expected exactly 2 attempts, got %d", attempts)
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Errorf("Expected a single 2s retry wait from Retry-After, got %v", slept)
	}
}

func TestThrottle_FallbackDelayWithoutRetryAfter(t *testing.T) {
	var attempts int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	client := testClient(t, handler, WithRetryDelay(250*time.Millisecond))

	var slept []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	if _, err := client.GetCalendar(context.Background(), "primary"); err != nil {
		t.Fatalf("GetCalendar() returned error: %v", err)
	}
	if len(slept) != 1 || slept[0] != 250*time.Millisecond {
		t.Errorf("Expected the configured fallback delay, got %v", slept)
	}
}

func TestThrottle_SecondThrottleTerminates(t *testing.T) {
	var attempts int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limit exceeded`))
	})

	client := testClient(t, handler)

	var sleeps int
	client.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}

	_, err := client.GetCalendar(context.Background(), "primary")
	if err == nil {
		t.Fatal("Expected error after retry exhaustion, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", apiErr.StatusCode)
	}
	if !apiErr.IsThrottled() {
		t.Error("Expected IsThrottled() to be true")
	}
	if attempts != 2 {
		t.Errorf("Expected exactly 2 attempts (no further retries), got %d", attempts)
	}
	if sleeps != 1 {
		t.Errorf("Expected exactly 1 retry wait, got %d", sleeps)
	}
}

func TestErrorCarriesStatusAndBodyVerbatim(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	})

	client := testClient(t, handler)

	_, err := client.ListColors(context.Background())
	if err == nil {
		t.Fatal("Expected error for 403 response, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"error":{"message":"quota exceeded"}}` {
		t.Errorf("Expected body passed through verbatim, got %q", apiErr.Body)
	}
}

func TestRateGate_ConcurrentCallsKeepMinimumSpacing(t *testing.T) {
	const interval = 30 * time.Millisecond
	const calls = 5

	var mu sync.Mutex
	var sendTimes []time.Time
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		sendTimes = append(sendTimes, time.Now())
		mu.Unlock()
		_, _ = w.Write([]byte(`{"id":"primary"}`))
	})

	client := testClient(t, handler, WithMinInterval(interval))

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.GetCalendar(context.Background(), "primary"); err != nil {
				t.Errorf("GetCalendar() returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(sendTimes) != calls {
		t.Fatalf("Expected %d sends, got %d", calls, len(sendTimes))
	}

	sort.Slice(sendTimes, func(i, j int) bool { return sendTimes[i].Before(sendTimes[j]) })

	// Allow a small scheduling tolerance; the gate itself is exact but the
	// timestamps are recorded inside the handler.
	const tolerance = 10 * time.Millisecond
	for i := 1; i < len(sendTimes); i++ {
		gap := sendTimes[i].Sub(sendTimes[i-1])
		if gap < interval-tolerance {
			t.Errorf("Sends %d and %d only %v apart, want at least %v", i-1, i, gap, interval)
		}
	}
}

func TestQueryFreeBusy_SendsBodyAndParsesCalendars(t *testing.T) {
	var received FreeBusyRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/freeBusy" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"kind": "calendar#freeBusy",
			"calendars": {
				"primary": {"busy": [{"start": "2024-01-02T09:00:00Z", "end": "2024-01-02T10:00:00Z"}]},
				"nope@example.com": {"errors": [{"domain": "global", "reason": "notFound"}]}
			}
		}`))
	})

	client := testClient(t, handler)

	resp, err := client.QueryFreeBusy(context.Background(), &FreeBusyRequest{
		TimeMin: "2024-01-01T00:00:00Z",
		TimeMax: "2024-01-07T00:00:00Z",
		Items: []*FreeBusyRequestItem{
			{ID: "primary"},
			{ID: "nope@example.com"},
		},
	})
	if err != nil {
		t.Fatalf("QueryFreeBusy() returned error: %v", err)
	}

	if len(received.Items) != 2 {
		t.Errorf("Expected 2 items in request body, got %d", len(received.Items))
	}
	if len(resp.Calendars) != 2 {
		t.Fatalf("Expected 2 calendars in response, got %d", len(resp.Calendars))
	}
	busy := resp.Calendars["primary"].Busy
	if len(busy) != 1 || busy[0].Start != "2024-01-02T09:00:00Z" {
		t.Errorf("Unexpected busy intervals for primary: %+v", busy)
	}
	errs := resp.Calendars["nope@example.com"].Errors
	if len(errs) != 1 || errs[0].Reason != "notFound" {
		t.Errorf("Unexpected per-calendar errors: %+v", errs)
	}
}

func TestPathSegmentsArePercentEncoded(t *testing.T) {
	var gotRawPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	})

	client := testClient(t, handler)

	if _, err := client.GetEvent(context.Background(), "team room/main", "ev 1"); err != nil {
		t.Fatalf("GetEvent() returned error: %v", err)
	}
	if gotRawPath != "/calendars/team%20room%2Fmain/events/ev%201" {
		t.Errorf("Expected percent-encoded path segments, got %s", gotRawPath)
	}
}
