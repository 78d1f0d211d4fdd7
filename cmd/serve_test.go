package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveToken(t *testing.T) {
	t.Setenv("GOOGLE_CALENDAR_TOKEN", "env-token")

	// Flag value takes precedence over the environment
	if got := resolveToken("flag-token"); got != "flag-token" {
		t.Errorf("resolveToken with flag = %q, want flag-token", got)
	}

	// Environment is the fallback
	if got := resolveToken(""); got != "env-token" {
		t.Errorf("resolveToken without flag = %q, want env-token", got)
	}

	// Nothing set at all
	t.Setenv("GOOGLE_CALENDAR_TOKEN", "")
	if got := resolveToken(""); got != "" {
		t.Errorf("resolveToken with nothing set = %q, want empty", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "calendar.env")
	if err := os.WriteFile(envPath, []byte("GOOGLE_CALENDAR_TOKEN=file-token\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	// An exported-but-empty variable must not mask the explicit file
	t.Setenv("GOOGLE_CALENDAR_TOKEN", "")
	if err := loadEnvFile(envPath); err != nil {
		t.Fatalf("loadEnvFile failed: %v", err)
	}
	if got := os.Getenv("GOOGLE_CALENDAR_TOKEN"); got != "file-token" {
		t.Errorf("GOOGLE_CALENDAR_TOKEN = %q, want file-token", got)
	}

	// An explicitly named file also wins over a non-empty variable
	t.Setenv("GOOGLE_CALENDAR_TOKEN", "stale-token")
	if err := loadEnvFile(envPath); err != nil {
		t.Fatalf("loadEnvFile failed: %v", err)
	}
	if got := os.Getenv("GOOGLE_CALENDAR_TOKEN"); got != "file-token" {
		t.Errorf("GOOGLE_CALENDAR_TOKEN = %q, want file-token", got)
	}

	// An explicitly named file must exist
	if err := loadEnvFile(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("expected an error for a missing explicit env file")
	}

	// A missing default .env is not an error
	if err := loadEnvFile(""); err != nil {
		t.Errorf("loadEnvFile without a path failed: %v", err)
	}
}

func TestRunServeRequiresToken(t *testing.T) {
	t.Setenv("GOOGLE_CALENDAR_TOKEN", "")

	err := runServe(serveOptions{Transport: "stdio"})
	if err == nil {
		t.Fatal("expected an error without a token")
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"calendar_list_events", "Event Tools"},
		{"calendar_create_event", "Event Tools"},
		{"calendar_quick_add_event", "Event Tools"},
		{"calendar_query_freebusy", "Availability Tools"},
		{"calendar_list_calendars", "Calendar Tools"},
		{"calendar_list_colors", "Calendar Tools"},
		{"something_else", "Other"},
	}

	for _, tt := range tests {
		if got := getCategoryFromToolName(tt.name); got != tt.expected {
			t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestGenerateDocsListsAllTools(t *testing.T) {
	// Generate docs to a temp file and check that all ten tools appear
	outputFile := filepath.Join(t.TempDir(), "tools.md")
	if err := runGenerateDocs(outputFile); err != nil {
		t.Fatalf("runGenerateDocs failed: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	markdown := string(data)

	toolNames := []string{
		"calendar_list_calendars",
		"calendar_get_calendar",
		"calendar_list_colors",
		"calendar_list_events",
		"calendar_get_event",
		"calendar_create_event",
		"calendar_update_event",
		"calendar_delete_event",
		"calendar_quick_add_event",
		"calendar_query_freebusy",
	}
	for _, name := range toolNames {
		if !strings.Contains(markdown, "### "+name+"\n") {
			t.Errorf("generated docs missing tool %s", name)
		}
	}
}
