//go:build windows

package supervisor

import (
	"os"
	"syscall"
)

// detachedSysProcAttr creates the child in a new process group so console
// control events for the supervisor don't reach it.
func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// terminateProcess has no graceful signal to send on Windows; the bounded
// wait in Stop degenerates to an immediate kill.
func terminateProcess(p *os.Process) error {
	return p.Kill()
}
