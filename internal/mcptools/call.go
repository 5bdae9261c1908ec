package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zhubert/toolhost/internal/supervisor"
)

// CallTool handles the call_tool MCP tool — the data-plane entry point
// that routes a request through the supervisor to a tool server.
type CallTool struct {
	sup *supervisor.Supervisor
}

// Definition returns the MCP tool definition for call_tool.
func (t *CallTool) Definition() mcp.Tool {
	return mcp.NewTool("call_tool",
		mcp.WithDescription(
			"Invoke a tool on a configured tool server. The server is started on "+
				"demand if it is not already running; the result is returned verbatim.",
		),
		mcp.WithString("server",
			mcp.Required(),
			mcp.Description("Name of the tool server"),
		),
		mcp.WithString("tool",
			mcp.Required(),
			mcp.Description("Name of the tool to invoke on the server"),
		),
		mcp.WithObject("params",
			mcp.Description("Parameters passed through to the tool"),
		),
	)
}

// Handle processes the call_tool tool call.
func (t *CallTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	server := req.GetString("server", "")
	if server == "" {
		return mcp.NewToolResultError("'server' is required"), nil
	}
	tool := req.GetString("tool", "")
	if tool == "" {
		return mcp.NewToolResultError("'tool' is required"), nil
	}

	var params map[string]any
	if raw, ok := req.GetArguments()["params"]; ok {
		params, ok = raw.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("'params' must be an object"), nil
		}
	}

	result, err := t.sup.CallTool(ctx, server, tool, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("call failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
