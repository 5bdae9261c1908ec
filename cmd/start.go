package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var startAll bool

var startCmd = &cobra.Command{
	Use:     "start [server...]",
	Short:   "Launch tool servers",
	GroupID: "servers",
	Long: `Launch one or more configured tool servers. Each server gets a port from
the deterministic port range, its environment (including PORT) composed
from the definition, and fresh stdout/stderr log files.

Starting an already-running server is a success. With --all, every
configured server is started and each result is reported independently.`,
	Example: `  toolhost start github             # Start one server
  toolhost start github filesystem  # Start several
  toolhost start --all              # Start everything configured`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVar(&startAll, "all", false, "Start every configured server")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	if !startAll && len(args) == 0 {
		return fmt.Errorf("specify server names or --all")
	}

	sup, err := newSupervisor()
	if err != nil {
		return err
	}

	if startAll {
		return reportBatch(sup.StartAll(), "started")
	}

	var failed bool
	for _, name := range args {
		if err := sup.Start(name); err != nil {
			fmt.Printf("%s: %v\n", name, err)
			failed = true
			continue
		}
		st, _ := sup.Status(name)
		fmt.Printf("%s: started (port %d, pid %d)\n", name, st.Port, st.PID)
	}
	if failed {
		return fmt.Errorf("some servers failed to start")
	}
	return nil
}

// reportBatch prints per-server batch results in stable order and returns
// an error when any server failed.
func reportBatch(results map[string]error, verb string) error {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var failed bool
	for _, name := range names {
		if err := results[name]; err != nil {
			fmt.Printf("%s: %v\n", name, err)
			failed = true
		} else {
			fmt.Printf("%s: %s\n", name, verb)
		}
	}
	if failed {
		return fmt.Errorf("some servers failed")
	}
	return nil
}
