package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhubert/toolhost/internal/logger"
)

var (
	quietMode             bool
	configPath            string
	basePort              int
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "toolhost",
	Short: "Supervisor for local tool-server processes",
	Long: `toolhost discovers, launches, health-monitors and routes calls to a set
of local tool servers — independently executable processes, each exposing
a narrow capability over a local port.

Definitions load from the first parseable config source (TOOLHOST_CONFIG,
~/.toolhost/config.yaml, ~/.toolhost/config.json, ~/.mcp/config.json),
falling back to a small built-in set. Servers start on demand when a call
is routed to them, or explicitly. Per-server stdout/stderr logs live
under ~/.toolhost/logs/.`,
	Example: `  toolhost list                     # Show configured servers
  toolhost start github             # Launch one server
  toolhost call github searchCode --param query=sync.Mutex
  toolhost serve --start-all        # Foreground supervisor with health monitor
  toolhost status                   # Show state, ports and uptime`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Explicit server config file (tried before the default locations)")
	rootCmd.PersistentFlags().IntVar(&basePort, "base-port", 0, "First port of the server port range (default 4000)")

	// Command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: "servers", Title: "Server Commands:"},
		&cobra.Group{ID: "supervisor", Title: "Supervisor Commands:"},
	)

	// Hide the auto-generated completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("toolhost %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("toolhost %s\n", version)
}
