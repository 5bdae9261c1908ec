package supervisor

import (
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/zhubert/toolhost/internal/hoststate"
	"github.com/zhubert/toolhost/internal/model"
)

// aliveProbeInterval is how often an adopted process (one with no wait
// handle) is polled while waiting for it to exit.
const aliveProbeInterval = 100 * time.Millisecond

// serverProcess is the registry entry for one launched tool server.
// At most one exists per server name; the supervisor's mutex guards the
// table and the state field.
type serverProcess struct {
	def       model.ServerDefinition
	port      int
	pid       int
	startedAt time.Time

	proc *os.Process // handle for signaling
	cmd  *exec.Cmd   // nil when adopted from persisted state

	logFile *os.File
	errFile *os.File
	logPath string
	errPath string

	state model.ServerState

	// ready is closed once the launch settles, successfully or not.
	// Concurrent starters and stoppers wait on it instead of racing the
	// launch in progress.
	ready     chan struct{}
	launchErr error // set before ready is closed

	// waitDone is closed by the wait goroutine once the child has been
	// reaped; exitCode is valid after that. Never closed for adopted
	// processes, which have no wait handle.
	waitDone chan struct{}
	exitCode int

	closeOnce sync.Once
}

// exitStatus reports whether the process has exited, without blocking.
// known is false for adopted processes, whose exit codes are unobservable.
func (p *serverProcess) exitStatus() (code int, known, exited bool) {
	if p.cmd != nil {
		select {
		case <-p.waitDone:
			return p.exitCode, true, true
		default:
			return 0, false, false
		}
	}
	if hoststate.ProcessAlive(p.pid) {
		return 0, false, false
	}
	return 0, false, true
}

// waitExit blocks until the process exits or the timeout elapses.
func (p *serverProcess) waitExit(timeout time.Duration) bool {
	if p.cmd != nil {
		select {
		case <-p.waitDone:
			return true
		case <-time.After(timeout):
			return false
		}
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !hoststate.ProcessAlive(p.pid) {
			return true
		}
		time.Sleep(aliveProbeInterval)
	}
	return false
}

// closeLogs releases the per-server log handles. Safe to call from any
// exit path; only the first call closes.
func (p *serverProcess) closeLogs() {
	p.closeOnce.Do(func() {
		if p.logFile != nil {
			p.logFile.Close()
		}
		if p.errFile != nil {
			p.errFile.Close()
		}
	})
}
