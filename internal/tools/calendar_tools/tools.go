package calendar_tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/calgate/calgate/internal/server"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP server.
// When readOnly is true, the write tools (create/update/delete/quick-add) are
// not registered.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register calendar list tools
	if err := RegisterCalendarListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}

	// Register event tools
	if err := RegisterEventTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	// Register scheduling tools
	if err := RegisterSchedulingTools(s, sc); err != nil {
		return fmt.Errorf("failed to register scheduling tools: %w", err)
	}

	return nil
}

// jsonResult renders a successful tool result as indented JSON text.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult builds the uniform error envelope. Domain failures are returned
// as error results, never as Go errors across the tool boundary.
func errorResult(format string, a ...interface{}) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + fmt.Sprintf(format, a...))
}

// decodeArg converts a loosely-typed argument value (maps and slices as
// decoded from JSON) into the given typed structure. Payload fields are
// passed through without interpretation.
func decodeArg(v interface{}, out interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
