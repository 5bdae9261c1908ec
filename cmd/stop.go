package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stopAll bool

var stopCmd = &cobra.Command{
	Use:     "stop [server...]",
	Short:   "Stop running tool servers",
	GroupID: "servers",
	Long: `Stop one or more running tool servers. Each server receives a graceful
termination signal and is force-killed if it does not exit within the
stop timeout. Stopping a server that is not running is a success.`,
	Example: `  toolhost stop github
  toolhost stop --all`,
	RunE: runStop,
}

func init() {
	stopCmd.Flags().BoolVar(&stopAll, "all", false, "Stop every running server")
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	if !stopAll && len(args) == 0 {
		return fmt.Errorf("specify server names or --all")
	}

	sup, err := newSupervisor()
	if err != nil {
		return err
	}

	if stopAll {
		return reportBatch(sup.StopAll(), "stopped")
	}

	var failed bool
	for _, name := range args {
		if err := sup.Stop(name); err != nil {
			fmt.Printf("%s: %v\n", name, err)
			failed = true
			continue
		}
		fmt.Printf("%s: stopped\n", name)
	}
	if failed {
		return fmt.Errorf("some servers failed to stop")
	}
	return nil
}
