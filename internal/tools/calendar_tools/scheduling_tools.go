package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calgate/calgate/internal/gcal"
	"github.com/calgate/calgate/internal/instrumentation"
	"github.com/calgate/calgate/internal/server"
	"github.com/calgate/calgate/internal/tools/common"
)

// RegisterSchedulingTools registers availability-related tools with the MCP server
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	freeBusyTool := mcp.NewTool("calendar_query_freebusy",
		mcp.WithDescription("Query busy intervals for one or more calendars over a time range"),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the interval (RFC3339, e.g. '2025-01-06T09:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the interval (RFC3339, e.g. '2025-01-06T18:00:00Z')"),
		),
		mcp.WithArray("calendarIds",
			mcp.Description("Calendar IDs to query (defaults to ['primary'])"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone used in the response (defaults to UTC)"),
		),
	)

	s.AddTool(freeBusyTool, common.InstrumentedToolHandlerWithOperation(
		"calendar_query_freebusy", instrumentation.OperationFreeBusy, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQueryFreeBusy(ctx, request, sc)
		}))

	return nil
}

func handleQueryFreeBusy(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	timeMin := common.GetStringArg(args, "timeMin")
	if timeMin == "" {
		return errorResult("timeMin is required"), nil
	}
	timeMax := common.GetStringArg(args, "timeMax")
	if timeMax == "" {
		return errorResult("timeMax is required"), nil
	}

	var calendarIDs []string
	if idsArg, ok := args["calendarIds"]; ok {
		if err := decodeArg(idsArg, &calendarIDs); err != nil {
			return errorResult("invalid calendarIds: %v", err), nil
		}
	}
	if len(calendarIDs) == 0 {
		calendarIDs = []string{"primary"}
	}

	req := &gcal.FreeBusyRequest{
		TimeMin:  timeMin,
		TimeMax:  timeMax,
		TimeZone: common.GetStringArg(args, "timeZone"),
	}
	for _, id := range calendarIDs {
		req.Items = append(req.Items, &gcal.FreeBusyRequestItem{ID: id})
	}

	result, err := sc.CalendarClient().QueryFreeBusy(ctx, req)
	if err != nil {
		return errorResult("failed to query free/busy: %v", err), nil
	}

	return jsonResult(result)
}
