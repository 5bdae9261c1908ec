package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/zhubert/toolhost/internal/mcptools"
)

var mcpServerCmd = &cobra.Command{
	Use:    "mcp-server",
	Short:  "Run toolhost as an MCP server on stdio",
	Hidden: true,
	Long: `Run toolhost as an MCP server communicating over stdin/stdout.
Exposes the supervisor's operations (list, start, stop, restart,
status, call) as MCP tools so an MCP client can manage local tool
servers through a single connection.`,
	RunE: runMCPServer,
}

func init() {
	rootCmd.AddCommand(mcpServerCmd)
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	sup, err := newSupervisor()
	if err != nil {
		return err
	}
	mcptools.Version = version
	return server.ServeStdio(mcptools.NewServer(sup))
}
