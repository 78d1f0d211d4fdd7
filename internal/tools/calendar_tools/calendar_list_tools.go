package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calgate/calgate/internal/instrumentation"
	"github.com/calgate/calgate/internal/server"
	"github.com/calgate/calgate/internal/tools/common"
)

// RegisterCalendarListTools registers calendar collection tools with the MCP server
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List calendars tool
	listCalendarsTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List all calendars on the user's calendar list"),
		mcp.WithString("pageToken",
			mcp.Description("Opaque page token from a previous response"),
		),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_list_calendars", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	// Get calendar tool
	getCalendarTool := mcp.NewTool("calendar_get_calendar",
		mcp.WithDescription("Get metadata of a single calendar"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
	)

	s.AddTool(getCalendarTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_get_calendar", instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetCalendar(ctx, request, sc)
		}))

	// List colors tool
	listColorsTool := mcp.NewTool("calendar_list_colors",
		mcp.WithDescription("List the color palette available for calendars and events"),
	)

	s.AddTool(listColorsTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_list_colors", instrumentation.OperationColors, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListColors(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	pageToken := common.GetStringArg(args, "pageToken")

	calendars, err := sc.CalendarClient().ListCalendars(ctx, pageToken)
	if err != nil {
		return errorResult("failed to list calendars: %v", err), nil
	}

	return jsonResult(calendars)
}

func handleGetCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	calendarID := common.GetStringArg(args, "calendarId")
	if calendarID == "" {
		return errorResult("calendarId is required"), nil
	}

	calendar, err := sc.CalendarClient().GetCalendar(ctx, calendarID)
	if err != nil {
		return errorResult("failed to get calendar: %v", err), nil
	}

	return jsonResult(calendar)
}

func handleListColors(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	colors, err := sc.CalendarClient().ListColors(ctx)
	if err != nil {
		return errorResult("failed to list colors: %v", err), nil
	}

	return jsonResult(colors)
}
