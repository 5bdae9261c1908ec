// Package supervisor owns the lifecycle of local tool-server processes:
// launching them on demand, allocating their ports, watching their health,
// and routing tool calls to them.
//
// The package is organized into focused modules:
//   - supervisor.go: Supervisor struct, construction, definition registry
//   - launch.go: process launch with grace-window crash detection
//   - stop.go: graceful stop, restart, and batch operations
//   - monitor.go: background health loop reconciling dead processes
//   - call.go: the call router (on-demand start + HTTP RPC)
//   - status.go: status snapshots
//   - process.go: per-process registry entry
//   - errors.go: typed errors surfaced to callers
package supervisor

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/zhubert/toolhost/internal/hoststate"
	"github.com/zhubert/toolhost/internal/model"
	"github.com/zhubert/toolhost/internal/ports"
	"github.com/zhubert/toolhost/internal/toolrpc"
)

// Default timing parameters.
const (
	DefaultGraceWindow     = time.Second
	DefaultStopTimeout     = 5 * time.Second
	DefaultMonitorInterval = 10 * time.Second
	DefaultRestartDelay    = 500 * time.Millisecond
)

// Supervisor manages a registry of tool-server definitions and the
// processes launched from them. All mutations of the active table are
// serialized through a single mutex; reads for status reporting work on
// snapshots so no I/O happens under the lock.
type Supervisor struct {
	logger *slog.Logger
	client *toolrpc.Client
	state  *hoststate.State // optional persisted process records

	mu       sync.Mutex
	defs     map[string]model.ServerDefinition
	order    []string
	active   map[string]*serverProcess
	lastExit map[string]int
	crashed  map[string]bool
	alloc    *ports.Allocator

	logDir          string
	basePort        int
	graceWindow     time.Duration
	stopTimeout     time.Duration
	callTimeout     time.Duration
	monitorInterval time.Duration
	restartDelay    time.Duration
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithBasePort sets the first port of the deterministic assignment range.
func WithBasePort(port int) Option {
	return func(s *Supervisor) { s.basePort = port }
}

// WithLogDir sets the directory for per-server stdout/stderr log files.
func WithLogDir(dir string) Option {
	return func(s *Supervisor) { s.logDir = dir }
}

// WithGraceWindow sets how long after spawn an immediate exit is treated
// as a launch failure.
func WithGraceWindow(d time.Duration) Option {
	return func(s *Supervisor) { s.graceWindow = d }
}

// WithStopTimeout sets how long a graceful stop waits before killing.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.stopTimeout = d }
}

// WithCallTimeout sets the per-request timeout for routed tool calls.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.callTimeout = d }
}

// WithMonitorInterval sets the health monitor polling interval.
func WithMonitorInterval(d time.Duration) Option {
	return func(s *Supervisor) { s.monitorInterval = d }
}

// WithRestartDelay sets the pause between stop and start on restart,
// giving the OS time to release the port.
func WithRestartDelay(d time.Duration) Option {
	return func(s *Supervisor) { s.restartDelay = d }
}

// WithState attaches persisted process records. Live processes recorded by
// a previous invocation are adopted into the active table at construction.
func WithState(state *hoststate.State) Option {
	return func(s *Supervisor) { s.state = state }
}

// New creates a supervisor over the given definitions.
func New(defs []model.ServerDefinition, logger *slog.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		logger:          logger,
		active:          make(map[string]*serverProcess),
		lastExit:        make(map[string]int),
		crashed:         make(map[string]bool),
		basePort:        ports.DefaultBasePort,
		graceWindow:     DefaultGraceWindow,
		stopTimeout:     DefaultStopTimeout,
		callTimeout:     toolrpc.DefaultTimeout,
		monitorInterval: DefaultMonitorInterval,
		restartDelay:    DefaultRestartDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.client = toolrpc.NewClient(s.callTimeout)
	if s.logDir == "" {
		dir, err := hoststate.LogDir()
		if err != nil {
			logger.Warn("failed to resolve log directory, using temp dir", "error", err)
			dir = os.TempDir()
		}
		s.logDir = dir
	}
	s.Reload(defs)
	if s.state != nil {
		s.adoptRecords()
	}
	return s
}

// Reload replaces the definition set wholesale. Definitions are never
// mutated in place. Running servers keep running (and keep their ports)
// even if their definition disappeared; the next stop retires them.
func (s *Supervisor) Reload(defs []model.ServerDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defs = make(map[string]model.ServerDefinition, len(defs))
	s.order = s.order[:0]
	for _, def := range defs {
		s.defs[def.Name] = def
		s.order = append(s.order, def.Name)
	}

	alloc := ports.NewAllocator(s.basePort, s.order)
	for name, p := range s.active {
		alloc.Reserve(name, p.port)
	}
	s.alloc = alloc
}

// ListServers returns the configured definitions in definition order.
func (s *Supervisor) ListServers() []model.ServerDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ServerDefinition, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.defs[name])
	}
	return out
}

// Definition returns the definition for a server name.
func (s *Supervisor) Definition(name string) (model.ServerDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	def, ok := s.defs[name]
	return def, ok
}

// adoptRecords rebuilds active entries for processes recorded by a
// previous invocation that are still alive. Dead records are dropped.
func (s *Supervisor) adoptRecords() {
	changed := false
	for name, rec := range s.state.Snapshot() {
		if !hoststate.ProcessAlive(rec.PID) {
			s.state.Remove(name)
			changed = true
			continue
		}
		def, ok := s.Definition(name)
		if !ok {
			// Recorded under an older config; still ours to manage.
			def = model.ServerDefinition{Name: name, Enabled: true}
		}
		proc, err := os.FindProcess(rec.PID)
		if err != nil {
			continue
		}
		ready := make(chan struct{})
		close(ready)
		p := &serverProcess{
			def:       def,
			port:      rec.Port,
			pid:       rec.PID,
			startedAt: rec.StartedAt,
			proc:      proc,
			logPath:   rec.LogPath,
			errPath:   rec.ErrPath,
			state:     model.ServerRunning,
			ready:     ready,
		}
		s.mu.Lock()
		s.active[name] = p
		s.alloc.Reserve(name, rec.Port)
		s.mu.Unlock()
		s.logger.Debug("adopted running server", "server", name, "pid", rec.PID, "port", rec.Port)
	}
	if changed {
		s.saveState()
	}
}

// persistPut records a launched process and saves state, when persistence
// is attached.
func (s *Supervisor) persistPut(p *serverProcess) {
	if s.state == nil {
		return
	}
	s.state.Put(&hoststate.ProcessRecord{
		Name:      p.def.Name,
		PID:       p.pid,
		Port:      p.port,
		StartedAt: p.startedAt,
		LogPath:   p.logPath,
		ErrPath:   p.errPath,
	})
	s.saveState()
}

// persistRemove drops a process record and saves state.
func (s *Supervisor) persistRemove(name string) {
	if s.state == nil {
		return
	}
	s.state.Remove(name)
	s.saveState()
}

func (s *Supervisor) saveState() {
	if err := s.state.Save(); err != nil {
		s.logger.Warn("failed to save supervisor state", "error", err)
	}
}
