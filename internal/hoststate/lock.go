package hoststate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// LockFilePath returns the path to the supervisor lock file.
func LockFilePath() string {
	home, err := HomeDir()
	if err != nil {
		userHome, _ := os.UserHomeDir()
		home = filepath.Join(userHome, ".toolhost")
	}
	return filepath.Join(home, "supervisor.lock")
}

// Lock manages the lock file preventing multiple supervisors from managing
// the same home directory (and therefore the same ports and log files).
type Lock struct {
	path string
	file *os.File
}

// AcquireLock attempts to acquire the supervisor lock.
// Returns an error if the lock is already held by a live process.
func AcquireLock() (*Lock, error) {
	fp := LockFilePath()

	if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	// Try to create the lock file exclusively
	f, err := os.OpenFile(fp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			// Check if the lock file is stale (process that created it is gone)
			data, readErr := os.ReadFile(fp)
			if readErr == nil {
				pidStr := strings.TrimSpace(string(data))
				if pid, parseErr := strconv.Atoi(pidStr); parseErr == nil {
					if !ProcessAlive(pid) {
						// Stale lock — owning process is dead. Remove and retry.
						os.Remove(fp)
						return AcquireLock()
					}
				}
				return nil, fmt.Errorf("supervisor lock already held (PID: %s). Remove %s if the process is not running", pidStr, fp)
			}
			return nil, fmt.Errorf("supervisor lock already held at %s", fp)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}

	// Write our PID
	fmt.Fprintf(f, "%d", os.Getpid())

	return &Lock{path: fp, file: f}, nil
}

// Release releases the supervisor lock.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
	}
	return os.Remove(l.path)
}

// FindLocks returns the paths of existing supervisor lock files.
func FindLocks() ([]string, error) {
	fp := LockFilePath()
	if _, err := os.Stat(fp); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat lock file: %w", err)
	}
	return []string{fp}, nil
}

// ClearLocks removes any supervisor lock file.
// Returns the number of lock files removed.
func ClearLocks() (int, error) {
	locks, err := FindLocks()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, fp := range locks {
		if err := os.Remove(fp); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove lock file %s: %w", fp, err)
		}
		removed++
	}
	return removed, nil
}

// ProcessAlive returns true if a process with the given PID is running.
// Uses signal 0 which checks for process existence without sending a signal.
func ProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil
}
