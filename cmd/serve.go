package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zhubert/toolhost/internal/hoststate"
	"github.com/zhubert/toolhost/internal/logger"
)

var (
	serveStartAll  bool
	serveLogToFile bool
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Run the supervisor in the foreground",
	GroupID: "supervisor",
	Long: `Run the supervisor loop in the foreground. The loop sweeps managed
servers on an interval and marks dead processes as crashed; it never
restarts them on its own. A lock file prevents two supervisors from
managing the same home directory.

The loop runs until interrupted (Ctrl-C or SIGTERM). Managed servers
keep running across supervisor restarts; their records are persisted
and re-adopted on the next run.`,
	Example: `  toolhost serve              # Supervise already-running servers
  toolhost serve --start-all  # Start every configured server first`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveStartAll, "start-all", false, "Start every configured server before supervising")
	serveCmd.Flags().BoolVar(&serveLogToFile, "log-file", false, "Log to the supervisor log file instead of stderr")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	lock, err := hoststate.AcquireLock()
	if err != nil {
		return err
	}
	defer lock.Release()

	if serveLogToFile {
		path, err := logger.SupervisorLogPath()
		if err != nil {
			return err
		}
		if err := logger.Init(path); err != nil {
			return err
		}
		defer logger.Close()
		fmt.Printf("Logging to %s\n", path)
	}

	sup, err := newSupervisor()
	if err != nil {
		return err
	}

	if serveStartAll {
		if err := reportBatch(sup.StartAll(), "started"); err != nil {
			logger.Get().Warn("not all servers started", "error", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Get().Info("supervisor running", "pid", os.Getpid())
	sup.Run(ctx)
	logger.Get().Info("supervisor shutting down")
	return nil
}
