package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zhubert/toolhost/internal/model"
)

var statusCmd = &cobra.Command{
	Use:     "status [server...]",
	Short:   "Show server status",
	GroupID: "servers",
	Long: `Show the current state of configured tool servers. Dead processes are
swept before reporting, so a server that crashed since the last command
shows up as crashed rather than running.`,
	Example: `  toolhost status
  toolhost status github`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	sup, err := newSupervisor()
	if err != nil {
		return err
	}
	sup.Reconcile()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATE\tPORT\tPID\tUPTIME\tLAST EXIT")

	if len(args) > 0 {
		var failed bool
		for _, name := range args {
			st, err := sup.Status(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
				failed = true
				continue
			}
			printStatusRow(w, st)
		}
		w.Flush()
		if failed {
			return fmt.Errorf("some servers were not found")
		}
		return nil
	}

	all := sup.AllStatus()
	for _, def := range sup.ListServers() {
		if row, ok := all[def.Name]; ok {
			printStatusRow(w, row)
		}
	}
	return w.Flush()
}

func printStatusRow(w *tabwriter.Writer, st model.ServerStatus) {
	port := "-"
	pid := "-"
	uptime := "-"
	lastExit := "-"
	if st.Port > 0 {
		port = fmt.Sprintf("%d", st.Port)
	}
	if st.PID > 0 {
		pid = fmt.Sprintf("%d", st.PID)
	}
	if st.Running {
		uptime = st.Uptime.String()
	}
	if st.LastExitCode != nil {
		lastExit = fmt.Sprintf("%d", *st.LastExitCode)
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", st.Name, st.State, port, pid, uptime, lastExit)
}
