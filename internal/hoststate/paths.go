// Package hoststate owns the supervisor's on-disk footprint: the home
// directory layout, the lock file that prevents two supervisors from
// managing the same servers, and the persisted process records that let a
// later invocation find servers launched by an earlier one.
package hoststate

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDir returns the toolhost home directory, creating nothing.
// TOOLHOST_HOME overrides the default ~/.toolhost.
func HomeDir() (string, error) {
	if dir := os.Getenv("TOOLHOST_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".toolhost"), nil
}

// LogDir returns the directory holding per-server stdout/stderr logs,
// creating it if needed.
func LogDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return dir, nil
}
