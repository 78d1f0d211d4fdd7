// Package calendar_tools provides MCP tools for Google Calendar.
//
// This package implements MCP (Model Context Protocol) tools that wrap the
// Google Calendar client functionality, exposing calendar, event, and
// availability operations to AI assistants.
//
// # Available Tools
//
// Calendar Management:
//   - calendar_list_calendars: List the calendars on the user's calendar list
//   - calendar_get_calendar: Get metadata for a specific calendar
//   - calendar_list_colors: List the color palette for calendars and events
//
// Event Management:
//   - calendar_list_events: List/search events with optional time-range filters
//   - calendar_get_event: Get details of a specific event
//   - calendar_create_event: Create a new event
//   - calendar_update_event: Update fields of an event, preserving the rest
//   - calendar_delete_event: Delete an event
//   - calendar_quick_add_event: Create an event from free-form text
//
// Availability:
//   - calendar_query_freebusy: Query busy intervals across calendars
//
// # Write Access
//
// Event creation, update, deletion, and quick-add are only registered when
// the server runs with write access enabled. In the default read-only mode
// those tools are absent from the tool list entirely.
//
// # Result Contract
//
// Successful calls return the calendar resource as indented JSON text.
// Domain failures (invalid arguments, API errors) are reported as tool
// results with an "Error: " prefixed message, never as protocol errors.
package calendar_tools
