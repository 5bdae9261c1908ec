// Package mcptools exposes the supervisor's operations as MCP tools so
// MCP-capable clients can manage and call local tool servers through the
// supervisor itself.
//
// Each tool is a small struct pairing a Definition with its Handle; the
// server command wires them all via NewServer.
package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/zhubert/toolhost/internal/supervisor"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer creates the MCP server with every supervisor tool registered.
func NewServer(sup *supervisor.Supervisor) *server.MCPServer {
	s := server.NewMCPServer(
		"toolhost",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"toolhost supervises local tool-server processes. Use list_servers to "+
				"see what is configured, call_tool to invoke a capability (the target "+
				"server is started on demand), and the start/stop/restart/status tools "+
				"to manage server lifecycles explicitly.",
		),
	)

	list := &ListTool{sup: sup}
	s.AddTool(list.Definition(), list.Handle)

	start := &StartTool{sup: sup}
	s.AddTool(start.Definition(), start.Handle)

	stop := &StopTool{sup: sup}
	s.AddTool(stop.Definition(), stop.Handle)

	restart := &RestartTool{sup: sup}
	s.AddTool(restart.Definition(), restart.Handle)

	status := &StatusTool{sup: sup}
	s.AddTool(status.Definition(), status.Handle)

	call := &CallTool{sup: sup}
	s.AddTool(call.Definition(), call.Handle)

	return s
}
