//go:build !windows

package supervisor

import (
	"os"
	"syscall"
)

// detachedSysProcAttr puts the child in its own process group so it is
// not torn down with the supervisor's terminal or parent process.
func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// terminateProcess asks the child to exit gracefully.
func terminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
