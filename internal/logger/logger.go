// Package logger provides process-level slog setup.
//
// Commands that own a terminal log to stderr; the long-running supervisor
// logs to a file under the toolhost home dir so child-server output and
// supervisor events end up in the same place.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhubert/toolhost/internal/hoststate"
)

var (
	mu      sync.Mutex
	current *slog.Logger
	logFile *os.File
	debug   = true
)

// SetDebug toggles debug-level logging. A logger already pointed at a
// file by Init keeps its file target.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
	if logFile != nil {
		current = slog.New(slog.NewTextHandler(logFile, handlerOptions()))
		return
	}
	current = nil // stderr handler rebuilt on next Get
}

// Get returns the process logger, building a stderr logger on first use.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = slog.New(slog.NewTextHandler(os.Stderr, handlerOptions()))
	}
	return current
}

// Init redirects logging to the given file path, creating parent
// directories as needed. Used by the serve command so the supervisor's
// own log survives the terminal.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	current = slog.New(slog.NewTextHandler(f, handlerOptions()))
	return nil
}

// Close releases the log file, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	current = nil
	return err
}

// SupervisorLogPath returns the path of the supervisor's own log file.
func SupervisorLogPath() (string, error) {
	dir, err := hoststate.LogDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "supervisor.log"), nil
}

func handlerOptions() *slog.HandlerOptions {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
