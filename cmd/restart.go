package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:     "restart <server>...",
	Short:   "Restart tool servers",
	GroupID: "servers",
	Long: `Stop and relaunch one or more tool servers. A server that was not
running is simply started.`,
	Example: `  toolhost restart github`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRestart,
}

func init() {
	rootCmd.AddCommand(restartCmd)
}

func runRestart(cmd *cobra.Command, args []string) error {
	sup, err := newSupervisor()
	if err != nil {
		return err
	}

	var failed bool
	for _, name := range args {
		if err := sup.Restart(name); err != nil {
			fmt.Printf("%s: %v\n", name, err)
			failed = true
			continue
		}
		st, _ := sup.Status(name)
		fmt.Printf("%s: restarted (port %d, pid %d)\n", name, st.Port, st.PID)
	}
	if failed {
		return fmt.Errorf("some servers failed to restart")
	}
	return nil
}
