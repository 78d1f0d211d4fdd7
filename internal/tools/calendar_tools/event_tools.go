package calendar_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calgate/calgate/internal/gcal"
	"github.com/calgate/calgate/internal/instrumentation"
	"github.com/calgate/calgate/internal/server"
	"github.com/calgate/calgate/internal/tools/common"
)

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List events tool (read-only, always available)
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List/search calendar events, optionally bounded by a time range"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Lower bound for the event end time (RFC3339, e.g. '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Description("Upper bound for the event start time (RFC3339, e.g. '2025-01-31T23:59:59Z')"),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search over event fields"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events per page"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Opaque page token from a previous response"),
		),
		mcp.WithBoolean("singleEvents",
			mcp.Description("Expand recurring events into instances"),
		),
		mcp.WithString("orderBy",
			mcp.Description("Sort order: 'startTime' (requires singleEvents) or 'updated'"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_list_events", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	// Get event tool
	getEventTool := mcp.NewTool("calendar_get_event",
		mcp.WithDescription("Get details of a specific calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to retrieve"),
		),
	)

	s.AddTool(getEventTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_get_event", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	// Write tools are only registered when write access is enabled.
	if readOnly {
		return nil
	}

	// Create event tool
	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a new calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithObject("start",
			mcp.Required(),
			mcp.Description("Event start: {date} for all-day or {dateTime, timeZone}"),
		),
		mcp.WithObject("end",
			mcp.Required(),
			mcp.Description("Event end: {date} for all-day or {dateTime, timeZone}"),
		),
		mcp.WithArray("attendees",
			mcp.Description("Attendee objects: [{email, displayName?, optional?}]"),
		),
		mcp.WithArray("recurrence",
			mcp.Description("Recurrence rules (e.g. ['RRULE:FREQ=WEEKLY;BYDAY=MO'])"),
		),
		mcp.WithObject("reminders",
			mcp.Description("Reminder settings: {useDefault, overrides?: [{method, minutes}]}"),
		),
		mcp.WithString("colorId",
			mcp.Description("Event color id from the color palette"),
		),
		mcp.WithString("transparency",
			mcp.Description("Busy indicator: 'opaque' (busy) or 'transparent' (free)"),
		),
		mcp.WithString("visibility",
			mcp.Description("Event visibility: 'default', 'public', 'private', or 'confidential'"),
		),
		mcp.WithBoolean("guestsCanInviteOthers",
			mcp.Description("Allow guests to invite others"),
		),
		mcp.WithBoolean("guestsCanSeeOtherGuests",
			mcp.Description("Allow guests to see other guests"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_create_event", instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	// Update event tool
	updateEventTool := mcp.NewTool("calendar_update_event",
		mcp.WithDescription("Update fields of an existing calendar event; unspecified fields are preserved"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithObject("start",
			mcp.Description("New event start: {date} for all-day or {dateTime, timeZone}"),
		),
		mcp.WithObject("end",
			mcp.Description("New event end: {date} for all-day or {dateTime, timeZone}"),
		),
		mcp.WithArray("attendees",
			mcp.Description("New attendee objects, replacing the current list"),
		),
		mcp.WithArray("recurrence",
			mcp.Description("New recurrence rules, replacing the current rules"),
		),
		mcp.WithObject("reminders",
			mcp.Description("New reminder settings"),
		),
		mcp.WithString("colorId",
			mcp.Description("New event color id"),
		),
		mcp.WithString("transparency",
			mcp.Description("New busy indicator: 'opaque' or 'transparent'"),
		),
		mcp.WithString("visibility",
			mcp.Description("New event visibility"),
		),
		mcp.WithBoolean("guestsCanInviteOthers",
			mcp.Description("Allow guests to invite others"),
		),
		mcp.WithBoolean("guestsCanSeeOtherGuests",
			mcp.Description("Allow guests to see other guests"),
		),
	)

	s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_update_event", instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}))

	// Delete event tool
	deleteEventTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete a calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)

	s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_delete_event", instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	// Quick-add event tool
	quickAddTool := mcp.NewTool("calendar_quick_add_event",
		mcp.WithDescription("Create an event from free-form text, parsed by the calendar service"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Free-form event description (e.g. 'Lunch with Anna tomorrow at noon')"),
		),
	)

	s.AddTool(quickAddTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_quick_add_event", instrumentation.OperationQuickAdd, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQuickAddEvent(ctx, request, sc)
		}))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	calendarID := common.GetCalendarIDFromArgs(args)

	opts := gcal.ListEventsOptions{
		TimeMin:   common.GetStringArg(args, "timeMin"),
		TimeMax:   common.GetStringArg(args, "timeMax"),
		Query:     common.GetStringArg(args, "query"),
		PageToken: common.GetStringArg(args, "pageToken"),
		OrderBy:   common.GetStringArg(args, "orderBy"),
	}
	if _, present := args["maxResults"]; present {
		maxResults, ok := common.GetIntArg(args, "maxResults")
		if !ok {
			return errorResult("maxResults must be a whole number"), nil
		}
		opts.MaxResults = &maxResults
	}
	if singleEvents, ok := common.GetBoolArg(args, "singleEvents"); ok {
		opts.SingleEvents = &singleEvents
	}

	events, err := sc.CalendarClient().ListEvents(ctx, calendarID, opts)
	if err != nil {
		return errorResult("failed to list events: %v", err), nil
	}

	return jsonResult(events)
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	calendarID := common.GetCalendarIDFromArgs(args)

	eventID := common.GetStringArg(args, "eventId")
	if eventID == "" {
		return errorResult("eventId is required"), nil
	}

	event, err := sc.CalendarClient().GetEvent(ctx, calendarID, eventID)
	if err != nil {
		return errorResult("failed to get event: %v", err), nil
	}

	return jsonResult(event)
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	calendarID := common.GetCalendarIDFromArgs(args)

	summary := common.GetStringArg(args, "summary")
	if summary == "" {
		return errorResult("summary is required"), nil
	}

	event := &gcal.Event{
		Summary:      summary,
		Description:  common.GetStringArg(args, "description"),
		Location:     common.GetStringArg(args, "location"),
		ColorID:      common.GetStringArg(args, "colorId"),
		Transparency: common.GetStringArg(args, "transparency"),
		Visibility:   common.GetStringArg(args, "visibility"),
	}

	startArg, ok := args["start"]
	if !ok {
		return errorResult("start is required"), nil
	}
	if err := decodeArg(startArg, &event.Start); err != nil {
		return errorResult("invalid start: %v", err), nil
	}

	endArg, ok := args["end"]
	if !ok {
		return errorResult("end is required"), nil
	}
	if err := decodeArg(endArg, &event.End); err != nil {
		return errorResult("invalid end: %v", err), nil
	}

	if err := applyEventOptions(args, event); err != nil {
		return errorResult("%v", err), nil
	}

	created, err := sc.CalendarClient().CreateEvent(ctx, calendarID, event)
	if err != nil {
		return errorResult("failed to create event: %v", err), nil
	}

	return jsonResult(created)
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	calendarID := common.GetCalendarIDFromArgs(args)

	eventID := common.GetStringArg(args, "eventId")
	if eventID == "" {
		return errorResult("eventId is required"), nil
	}

	// The events endpoint replaces the full resource on update, so fetch the
	// current event and copy only the caller-specified fields over it before
	// writing it back. Fields the caller does not mention are preserved.
	event, err := sc.CalendarClient().GetEvent(ctx, calendarID, eventID)
	if err != nil {
		return errorResult("failed to get event for update: %v", err), nil
	}

	if summary, ok := args["summary"].(string); ok {
		event.Summary = summary
	}
	if description, ok := args["description"].(string); ok {
		event.Description = description
	}
	if location, ok := args["location"].(string); ok {
		event.Location = location
	}
	if colorID, ok := args["colorId"].(string); ok {
		event.ColorID = colorID
	}
	if transparency, ok := args["transparency"].(string); ok {
		event.Transparency = transparency
	}
	if visibility, ok := args["visibility"].(string); ok {
		event.Visibility = visibility
	}
	if startArg, ok := args["start"]; ok {
		event.Start = nil
		if err := decodeArg(startArg, &event.Start); err != nil {
			return errorResult("invalid start: %v", err), nil
		}
	}
	if endArg, ok := args["end"]; ok {
		event.End = nil
		if err := decodeArg(endArg, &event.End); err != nil {
			return errorResult("invalid end: %v", err), nil
		}
	}

	if err := applyEventOptions(args, event); err != nil {
		return errorResult("%v", err), nil
	}

	updated, err := sc.CalendarClient().UpdateEvent(ctx, calendarID, eventID, event)
	if err != nil {
		return errorResult("failed to update event: %v", err), nil
	}

	return jsonResult(updated)
}

// applyEventOptions copies the optional event arguments shared by create and
// update onto the event. Arguments not present in args leave the event
// untouched.
func applyEventOptions(args map[string]interface{}, event *gcal.Event) error {
	if attendeesArg, ok := args["attendees"]; ok {
		event.Attendees = nil
		if err := decodeArg(attendeesArg, &event.Attendees); err != nil {
			return fmt.Errorf("invalid attendees: %w", err)
		}
	}
	if recurrenceArg, ok := args["recurrence"]; ok {
		event.Recurrence = nil
		if err := decodeArg(recurrenceArg, &event.Recurrence); err != nil {
			return fmt.Errorf("invalid recurrence: %w", err)
		}
	}
	if remindersArg, ok := args["reminders"]; ok {
		event.Reminders = nil
		if err := decodeArg(remindersArg, &event.Reminders); err != nil {
			return fmt.Errorf("invalid reminders: %w", err)
		}
	}
	if canInvite, ok := common.GetBoolArg(args, "guestsCanInviteOthers"); ok {
		event.GuestsCanInviteOthers = &canInvite
	}
	if canSee, ok := common.GetBoolArg(args, "guestsCanSeeOtherGuests"); ok {
		event.GuestsCanSeeOtherGuests = &canSee
	}
	return nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	calendarID := common.GetCalendarIDFromArgs(args)

	eventID := common.GetStringArg(args, "eventId")
	if eventID == "" {
		return errorResult("eventId is required"), nil
	}

	if err := sc.CalendarClient().DeleteEvent(ctx, calendarID, eventID); err != nil {
		return errorResult("failed to delete event: %v", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted event %s", eventID)), nil
}

func handleQuickAddEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	calendarID := common.GetCalendarIDFromArgs(args)

	text := common.GetStringArg(args, "text")
	if text == "" {
		return errorResult("text is required"), nil
	}

	event, err := sc.CalendarClient().QuickAddEvent(ctx, calendarID, text)
	if err != nil {
		return errorResult("failed to quick-add event: %v", err), nil
	}

	return jsonResult(event)
}
