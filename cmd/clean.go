package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/toolhost/internal/hoststate"
)

var cleanSkipConfirm bool

var cleanCmd = &cobra.Command{
	Use:     "clean",
	Short:   "Remove supervisor state and lock files",
	GroupID: "supervisor",
	Long: `Clears persisted process records and removes the supervisor lock file.

This is useful when the state becomes stale (recorded processes that no
longer exist) or when a lock file is left behind after an unclean
shutdown.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(os.Stdin)
}

func runCleanWithReader(input io.Reader) error {
	stateExists := hoststate.StateExists()
	lockFiles, err := hoststate.FindLocks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error finding lock files: %v\n", err)
	}

	if !stateExists && len(lockFiles) == 0 {
		fmt.Println("Nothing to clean.")
		return nil
	}

	fmt.Println("This will clean:")
	if stateExists {
		fmt.Println("  - Process state file (state.json)")
	}
	if len(lockFiles) > 0 {
		fmt.Printf("  - %d supervisor lock file(s)\n", len(lockFiles))
		for _, lf := range lockFiles {
			fmt.Printf("      %s\n", lf)
		}
		fmt.Println()
		fmt.Println("  Warning: a lock file indicates a supervisor may be running.")
		fmt.Println("  Cleaning while one is active can orphan managed servers.")
	}

	if !cleanSkipConfirm {
		if !confirm(input, "Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	var stateRemoved bool
	if stateExists {
		if err := hoststate.ClearState(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error removing state file: %v\n", err)
		} else {
			stateRemoved = true
		}
	}

	locksRemoved, err := hoststate.ClearLocks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error removing lock files: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Cleaned:")
	if stateRemoved {
		fmt.Println("  - Process state file removed")
	}
	if locksRemoved > 0 {
		fmt.Printf("  - %d lock file(s) removed\n", locksRemoved)
	}

	return nil
}
