package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show configured tool servers",
	GroupID: "servers",
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	sup, err := newSupervisor()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENABLED\tCOMMAND\tTOOLS")
	for _, def := range sup.ListServers() {
		command := def.Command
		if len(def.Args) > 0 {
			command += " " + strings.Join(def.Args, " ")
		}
		tools := "-"
		if len(def.Tools) > 0 {
			tools = strings.Join(def.Tools, ",")
		}
		fmt.Fprintf(w, "%s\t%v\t%s\t%s\n", def.Name, def.Enabled, command, tools)
	}
	return w.Flush()
}
