package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zhubert/toolhost/internal/supervisor"
)

// ListTool handles the list_servers MCP tool.
type ListTool struct {
	sup *supervisor.Supervisor
}

// Definition returns the MCP tool definition for list_servers.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("list_servers",
		mcp.WithDescription("List the configured tool servers: name, launch command, enabled flag, and declared tools."),
	)
}

// Handle processes the list_servers tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	for _, def := range t.sup.ListServers() {
		state := "enabled"
		if !def.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(&b, "%s (%s): %s", def.Name, state, def.Command)
		if len(def.Args) > 0 {
			fmt.Fprintf(&b, " %s", strings.Join(def.Args, " "))
		}
		if len(def.Tools) > 0 {
			fmt.Fprintf(&b, " [tools: %s]", strings.Join(def.Tools, ", "))
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("No servers configured."), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// StartTool handles the start_server MCP tool.
type StartTool struct {
	sup *supervisor.Supervisor
}

// Definition returns the MCP tool definition for start_server.
func (t *StartTool) Definition() mcp.Tool {
	return mcp.NewTool("start_server",
		mcp.WithDescription("Start a configured tool server. Already running is a success."),
		mcp.WithString("server",
			mcp.Required(),
			mcp.Description("Name of the server to start"),
		),
	)
}

// Handle processes the start_server tool call.
func (t *StartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("server", "")
	if name == "" {
		return mcp.NewToolResultError("'server' is required"), nil
	}
	if err := t.sup.Start(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start %s: %v", name, err)), nil
	}
	st, _ := t.sup.Status(name)
	return mcp.NewToolResultText(fmt.Sprintf("Server %s running on port %d (pid %d).", name, st.Port, st.PID)), nil
}

// StopTool handles the stop_server MCP tool.
type StopTool struct {
	sup *supervisor.Supervisor
}

// Definition returns the MCP tool definition for stop_server.
func (t *StopTool) Definition() mcp.Tool {
	return mcp.NewTool("stop_server",
		mcp.WithDescription("Stop a running tool server. Not running is a success."),
		mcp.WithString("server",
			mcp.Required(),
			mcp.Description("Name of the server to stop"),
		),
	)
}

// Handle processes the stop_server tool call.
func (t *StopTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("server", "")
	if name == "" {
		return mcp.NewToolResultError("'server' is required"), nil
	}
	if err := t.sup.Stop(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to stop %s: %v", name, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Server %s stopped.", name)), nil
}

// RestartTool handles the restart_server MCP tool.
type RestartTool struct {
	sup *supervisor.Supervisor
}

// Definition returns the MCP tool definition for restart_server.
func (t *RestartTool) Definition() mcp.Tool {
	return mcp.NewTool("restart_server",
		mcp.WithDescription("Restart a tool server: stop, brief pause for port release, start."),
		mcp.WithString("server",
			mcp.Required(),
			mcp.Description("Name of the server to restart"),
		),
	)
}

// Handle processes the restart_server tool call.
func (t *RestartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("server", "")
	if name == "" {
		return mcp.NewToolResultError("'server' is required"), nil
	}
	if err := t.sup.Restart(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to restart %s: %v", name, err)), nil
	}
	st, _ := t.sup.Status(name)
	return mcp.NewToolResultText(fmt.Sprintf("Server %s running on port %d (pid %d).", name, st.Port, st.PID)), nil
}

// StatusTool handles the server_status MCP tool.
type StatusTool struct {
	sup *supervisor.Supervisor
}

// Definition returns the MCP tool definition for server_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("server_status",
		mcp.WithDescription("Report server status (state, port, pid, uptime, last exit code). Without 'server', reports all."),
		mcp.WithString("server",
			mcp.Description("Name of a single server to report on"),
		),
	)
}

// Handle processes the server_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if name := req.GetString("server", ""); name != "" {
		st, err := t.sup.Status(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, _ := json.MarshalIndent(st, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
	data, _ := json.MarshalIndent(t.sup.AllStatus(), "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
