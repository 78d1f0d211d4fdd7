package instrumentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation("calendar_list_events").
		WithCalendar("primary").
		WithOperation(OperationList)

	time.Sleep(time.Millisecond)
	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Expected success")
	}
	if ti.Duration <= 0 {
		t.Errorf("Expected positive duration, got %v", ti.Duration)
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Expected status %q, got %q", StatusSuccess, ti.Status())
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("calendar_delete_event").
		WithCalendar("team@example.com").
		WithEvent("ev42").
		WithOperation(OperationDelete)

	ti.CompleteWithError(errors.New("calendar API error: status 404: not found"))

	if ti.Success {
		t.Error("Expected failure")
	}
	if ti.Status() != StatusError {
		t.Errorf("Expected status %q, got %q", StatusError, ti.Status())
	}
	if ti.Error == "" {
		t.Error("Expected error message to be recorded")
	}
}

func TestToolInvocation_LogAttrsClampCalendar(t *testing.T) {
	ti := NewToolInvocation("calendar_get_event").
		WithCalendar("someone@example.com").
		WithEvent("ev42").
		WithOperation(OperationGet).
		CompleteSuccess()

	attrs := ti.LogAttrs()
	byKey := map[string]slog.Attr{}
	for _, a := range attrs {
		byKey[a.Key] = a
	}

	if got := byKey["calendar"].Value.String(); got != CalendarOther {
		t.Errorf("Expected clamped calendar label %q, got %q", CalendarOther, got)
	}
	if _, present := byKey["event_id"]; present {
		t.Error("Expected event id to be omitted from cardinality-controlled attrs")
	}
	if _, present := byKey["calendar_id"]; present {
		t.Error("Expected full calendar id to be omitted from cardinality-controlled attrs")
	}
}

func TestToolInvocation_LogAuditAttrsIncludeIdentifiers(t *testing.T) {
	ti := NewToolInvocation("calendar_update_event").
		WithCalendar("someone@example.com").
		WithEvent("ev42").
		WithOperation(OperationUpdate).
		CompleteSuccess()

	attrs := ti.LogAuditAttrs()
	byKey := map[string]slog.Attr{}
	for _, a := range attrs {
		byKey[a.Key] = a
	}

	if got := byKey["calendar_id"].Value.String(); got != "someone@example.com" {
		t.Errorf("Expected full calendar id in audit attrs, got %q", got)
	}
	if got := byKey["event_id"].Value.String(); got != "ev42" {
		t.Errorf("Expected event id in audit attrs, got %q", got)
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	t.Run("success logs at info level", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

		al.LogToolInvocation(NewToolInvocation("calendar_list_calendars").CompleteSuccess())

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("Failed to parse log output: %v", err)
		}
		if entry["msg"] != "tool_executed" {
			t.Errorf("Expected tool_executed message, got %v", entry["msg"])
		}
		if entry["level"] != "INFO" {
			t.Errorf("Expected INFO level, got %v", entry["level"])
		}
	})

	t.Run("failure logs at warn level", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

		al.LogToolInvocation(NewToolInvocation("calendar_create_event").
			CompleteWithError(errors.New("boom")))

		if !strings.Contains(buf.String(), "tool_failed") {
			t.Errorf("Expected tool_failed message, got %s", buf.String())
		}
		if !strings.Contains(buf.String(), "WARN") {
			t.Errorf("Expected WARN level, got %s", buf.String())
		}
	})

	t.Run("disabled logger emits nothing", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
		al.SetEnabled(false)

		al.LogToolInvocation(NewToolInvocation("calendar_list_calendars").CompleteSuccess())

		if buf.Len() != 0 {
			t.Errorf("Expected no output when disabled, got %s", buf.String())
		}
	})

	t.Run("resource ids only with opt-in", func(t *testing.T) {
		var buf bytes.Buffer
		al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

		ti := NewToolInvocation("calendar_get_event").
			WithCalendar("secret@example.com").
			WithEvent("ev42").
			CompleteSuccess()

		al.LogToolInvocation(ti)
		if strings.Contains(buf.String(), "secret@example.com") {
			t.Errorf("Expected calendar id withheld by default, got %s", buf.String())
		}

		buf.Reset()
		al.SetIncludeResourceIDs(true)
		al.LogToolInvocation(ti)
		if !strings.Contains(buf.String(), "secret@example.com") {
			t.Errorf("Expected calendar id with opt-in, got %s", buf.String())
		}
	})
}
