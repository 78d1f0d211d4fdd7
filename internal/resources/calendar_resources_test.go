package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/calgate/calgate/internal/gcal"
	"github.com/calgate/calgate/internal/server"
)

func newTestContext(t *testing.T, handler http.Handler) *server.ServerContext {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gcal.NewClient("test-token",
		gcal.WithBaseURL(srv.URL),
		gcal.WithMinInterval(time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	sc, err := server.NewServerContext(context.Background(), client)
	if err != nil {
		t.Fatalf("NewServerContext failed: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func readResourceRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func TestHandleCalendarList(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/calendarList" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"calendar#calendarList","items":[{"id":"primary","summary":"Personal"}]}`))
	}))

	contents, err := handleCalendarList(context.Background(), readResourceRequest("calendar://calendars"), sc)
	if err != nil {
		t.Fatalf("handleCalendarList failed: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(contents))
	}

	text, ok := contents[0].(*mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}
	if text.URI != "calendar://calendars" {
		t.Errorf("unexpected URI: %s", text.URI)
	}
	if text.MIMEType != "application/json" {
		t.Errorf("unexpected MIME type: %s", text.MIMEType)
	}
	if !strings.Contains(text.Text, `"summary": "Personal"`) {
		t.Errorf("unexpected text: %s", text.Text)
	}
}

func TestHandleColors(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/colors" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"calendar#colors","event":{"1":{"background":"#a4bdfc","foreground":"#1d1d1d"}}}`))
	}))

	contents, err := handleColors(context.Background(), readResourceRequest("calendar://colors"), sc)
	if err != nil {
		t.Fatalf("handleColors failed: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(contents))
	}

	text, ok := contents[0].(*mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}
	if !strings.Contains(text.Text, `"#a4bdfc"`) {
		t.Errorf("unexpected text: %s", text.Text)
	}
}

func TestHandleCalendarListError(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":401,"message":"Invalid Credentials"}}`))
	}))

	_, err := handleCalendarList(context.Background(), readResourceRequest("calendar://calendars"), sc)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status code in error, got: %v", err)
	}
}
