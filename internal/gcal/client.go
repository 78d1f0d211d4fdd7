package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// defaultBaseURL is the resource root of the Calendar v3 REST API.
	defaultBaseURL = "https://www.googleapis.com/calendar/v3"

	// defaultMinInterval is the minimum spacing between outbound requests,
	// shared across all operations of a client (100ms, i.e. 10 req/s).
	defaultMinInterval = 100 * time.Millisecond

	// defaultRetryDelay is the fallback wait before the single throttle
	// retry when the service does not send a Retry-After header.
	defaultRetryDelay = time.Second
)

// Operation names reported to the Observer. List and get are shared between
// the calendar and event endpoints.
const (
	OpList     = "list"
	OpGet      = "get"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpQuickAdd = "quickAdd"
	OpFreeBusy = "freeBusy"
	OpColors   = "colors"
)

// Request outcomes reported to the Observer.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusThrottled = "throttled"
)

// Observer receives request-lifecycle notifications from a Client. All
// methods may be called concurrently.
type Observer interface {
	// RequestCompleted is called once per operation after the retry policy
	// has run its course. statusCode is zero for transport-level failures.
	RequestCompleted(ctx context.Context, operation, calendarID, status string, statusCode int, duration time.Duration)

	// ThrottleRetried is called when a throttled request is about to be
	// retried.
	ThrottleRetried(ctx context.Context, operation string)

	// RateGateWaited is called after each pass through the rate gate with
	// the time spent waiting.
	RateGateWaited(ctx context.Context, wait time.Duration)
}

// Client performs authenticated HTTP calls against the Google Calendar API.
// A single instance is safe for concurrent use; the rate gate is shared by
// all operations so concurrent callers still observe the global minimum
// spacing between sends.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	retryDelay time.Duration
	observer   Observer

	// sleep performs the throttle-retry wait; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API resource root. Used by tests to point the
// client at a mock server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMinInterval overrides the minimum spacing between outbound requests.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithRetryDelay overrides the fallback wait before the throttle retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithObserver attaches a request-lifecycle observer, typically backed by
// the metrics layer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a Calendar client that authenticates with the given
// bearer token. The token is held for the lifetime of the client and never
// refreshed; an empty token is a fatal construction error.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("calendar access token cannot be empty")
	}

	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		token:      token,
		limiter:    rate.NewLimiter(rate.Every(defaultMinInterval), 1),
		retryDelay: defaultRetryDelay,
		sleep:      sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// do runs the full request lifecycle: rate gate, build, send, single
// throttle retry, error mapping, and body decoding into out (which may be
// nil for operations without a response body).
func (c *Client) do(ctx context.Context, op, calendarID, method, path string, query url.Values, body, out interface{}) error {
	start := time.Now()

	err := c.doOnce(ctx, op, method, path, query, body, out)

	if c.observer != nil {
		status := StatusSuccess
		statusCode := 0
		var apiErr *APIError
		switch {
		case err == nil:
			statusCode = http.StatusOK
		case errors.As(err, &apiErr):
			statusCode = apiErr.StatusCode
			status = StatusError
			if apiErr.IsThrottled() {
				status = StatusThrottled
			}
		default:
			status = StatusError
		}
		c.observer.RequestCompleted(ctx, op, calendarID, status, statusCode, time.Since(start))
	}

	return err
}

func (c *Client) doOnce(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return err
	}

	// One delayed retry on throttle. A second 429 on the retried attempt is
	// treated as a normal failure below.
	if resp.StatusCode == http.StatusTooManyRequests {
		delay := retryAfter(resp, c.retryDelay)
		drain(resp)

		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
		if c.observer != nil {
			c.observer.ThrottleRetried(ctx, op)
		}

		resp, err = c.send(ctx, method, path, query, payload)
		if err != nil {
			return err
		}
	}
	defer drain(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	// A no-content success yields an empty result rather than a parse attempt.
	if resp.StatusCode == http.StatusNoContent || len(data) == 0 || out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	return nil
}

// send issues one request attempt. The rate gate is consulted before every
// attempt, including the throttle retry, so retries also count against the
// global spacing.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, error) {
	gateStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if c.observer != nil {
		c.observer.RateGateWaited(ctx, time.Since(gateStart))
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors are propagated as-is, never retried here.
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}

	return resp, nil
}

// retryAfter returns the server-supplied retry delay, or the fallback when
// the header is absent or malformed.
func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// sleepContext blocks for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ListCalendars lists one page of the user's calendar list. The page token
// is an opaque string passed through verbatim; the client never
// auto-paginates.
func (c *Client) ListCalendars(ctx context.Context, pageToken string) (*CalendarList, error) {
	query := url.Values{}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	var list CalendarList
	if err := c.do(ctx, OpList, "", http.MethodGet, "/users/me/calendarList", query, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	return &list, nil
}

// GetCalendar retrieves a single calendar by ID.
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*Calendar, error) {
	var cal Calendar
	if err := c.do(ctx, OpGet, calendarID, http.MethodGet, "/calendars/"+url.PathEscape(calendarID), nil, nil, &cal); err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	return &cal, nil
}

// ListEvents lists one page of events in a calendar. Filters are appended
// as query parameters only when set; omission means the service default.
func (c *Client) ListEvents(ctx context.Context, calendarID string, opts ListEventsOptions) (*Events, error) {
	query := url.Values{}
	if opts.TimeMin != "" {
		query.Set("timeMin", opts.TimeMin)
	}
	if opts.TimeMax != "" {
		query.Set("timeMax", opts.TimeMax)
	}
	if opts.Query != "" {
		query.Set("q", opts.Query)
	}
	if opts.MaxResults != nil {
		query.Set("maxResults", strconv.FormatInt(*opts.MaxResults, 10))
	}
	if opts.PageToken != "" {
		query.Set("pageToken", opts.PageToken)
	}
	if opts.SingleEvents != nil {
		query.Set("singleEvents", strconv.FormatBool(*opts.SingleEvents))
	}
	if opts.OrderBy != "" {
		query.Set("orderBy", opts.OrderBy)
	}

	var events Events
	if err := c.do(ctx, OpList, calendarID, http.MethodGet, "/calendars/"+url.PathEscape(calendarID)+"/events", query, nil, &events); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return &events, nil
}

// GetEvent retrieves a single event by ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*Event, error) {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID)

	var event Event
	if err := c.do(ctx, OpGet, calendarID, http.MethodGet, path, nil, nil, &event); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// CreateEvent creates a new event; the returned event carries the
// server-assigned fields (id, etag, links).
func (c *Client) CreateEvent(ctx context.Context, calendarID string, event *Event) (*Event, error) {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events"

	var created Event
	if err := c.do(ctx, OpCreate, calendarID, http.MethodPost, path, nil, event, &created); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &created, nil
}

// UpdateEvent replaces an event with full PUT semantics: the caller must
// supply the complete desired event shape, not a patch. Merging
// caller-specified fields into the current event is the caller's job.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, event *Event) (*Event, error) {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID)

	var updated Event
	if err := c.do(ctx, OpUpdate, calendarID, http.MethodPut, path, nil, event, &updated); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return &updated, nil
}

// DeleteEvent deletes an event. Success is signaled only by the absence of
// an error; the service answers with no content.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID)

	if err := c.do(ctx, OpDelete, calendarID, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}

// QuickAddEvent creates an event from free-form text, parsed entirely by
// the service. The text travels as a query parameter, not a body.
func (c *Client) QuickAddEvent(ctx context.Context, calendarID, text string) (*Event, error) {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/quickAdd"
	query := url.Values{}
	query.Set("text", text)

	var created Event
	if err := c.do(ctx, OpQuickAdd, calendarID, http.MethodPost, path, query, nil, &created); err != nil {
		return nil, fmt.Errorf("failed to quick-add event: %w", err)
	}

	return &created, nil
}

// QueryFreeBusy returns per-calendar busy intervals and per-calendar errors
// for the queried time range.
func (c *Client) QueryFreeBusy(ctx context.Context, req *FreeBusyRequest) (*FreeBusyResponse, error) {
	var resp FreeBusyResponse
	if err := c.do(ctx, OpFreeBusy, "", http.MethodPost, "/freeBusy", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	return &resp, nil
}

// ListColors retrieves the static color palette for calendars and events.
func (c *Client) ListColors(ctx context.Context) (*Colors, error) {
	var colors Colors
	if err := c.do(ctx, OpColors, "", http.MethodGet, "/colors", nil, nil, &colors); err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}

	return &colors, nil
}
