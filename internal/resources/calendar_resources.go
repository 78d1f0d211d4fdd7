package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calgate/calgate/internal/server"
)

// RegisterCalendarResources registers read-only calendar resources.
// These resources expose slow-changing data (the calendar list and the color
// palette) so clients can fetch them without going through a tool call.
func RegisterCalendarResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	calendarsResource := mcp.NewResource(
		"calendar://calendars",
		"Calendar List",
		mcp.WithResourceDescription("The calendars on the user's calendar list"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(calendarsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendarList(ctx, request, sc)
	})

	colorsResource := mcp.NewResource(
		"calendar://colors",
		"Color Palette",
		mcp.WithResourceDescription("The color definitions for calendars and events"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(colorsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleColors(ctx, request, sc)
	})

	return nil
}

// handleCalendarList returns the first page of the user's calendar list
func handleCalendarList(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	calendars, err := sc.CalendarClient().ListCalendars(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	jsonData, err := json.MarshalIndent(calendars, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calendar list: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleColors returns the calendar and event color palette
func handleColors(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	colors, err := sc.CalendarClient().ListColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}

	jsonData, err := json.MarshalIndent(colors, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal colors: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
