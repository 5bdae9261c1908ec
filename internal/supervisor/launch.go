package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/zhubert/toolhost/internal/model"
)

// stderrTailBytes bounds how much captured stderr is attached to a
// LaunchError.
const stderrTailBytes = 2048

// Start launches the named server. Idempotent: if the server is already
// active, Start waits for any in-flight launch to settle and returns its
// outcome without relaunching. The caller observing success is guaranteed
// an entry in the active table with status running.
func (s *Supervisor) Start(name string) error {
	s.mu.Lock()
	def, ok := s.defs[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("server %q not found in configuration", name)
	}
	if !def.Enabled {
		s.mu.Unlock()
		return fmt.Errorf("server %q is disabled", name)
	}
	if existing, ok := s.active[name]; ok {
		s.mu.Unlock()
		<-existing.ready
		return existing.launchErr
	}

	// Register the launch before leaving the lock so a concurrent Start
	// converges on this process instead of spawning a second one.
	p := &serverProcess{
		def:      def,
		state:    model.ServerStarting,
		ready:    make(chan struct{}),
		waitDone: make(chan struct{}),
	}
	s.active[name] = p
	s.mu.Unlock()

	err := s.launch(p)

	s.mu.Lock()
	if err != nil {
		delete(s.active, name)
		p.launchErr = err
		close(p.ready)
		s.mu.Unlock()
		s.logger.Error("server launch failed", "server", name, "error", err)
		return err
	}
	p.state = model.ServerRunning
	delete(s.crashed, name)
	close(p.ready)
	s.mu.Unlock()

	s.persistPut(p)
	s.logger.Info("started server", "server", name, "pid", p.pid, "port", p.port)
	return nil
}

// launch resolves a port, opens log files, spawns the child detached from
// the supervisor's lifecycle, and watches the grace window for an
// immediate crash. Log handles are released on every failure path.
func (s *Supervisor) launch(p *serverProcess) error {
	name := p.def.Name

	port, err := s.alloc.Resolve(name)
	if err != nil {
		return err
	}

	if err := s.openLogs(p); err != nil {
		return &LaunchError{Server: name, ExitCode: -1, Err: err}
	}

	cmd := exec.Command(p.def.Command, p.def.Args...)
	cmd.Env = composeEnv(os.Environ(), port, p.def.Env)
	cmd.Stdout = p.logFile
	cmd.Stderr = p.errFile
	cmd.SysProcAttr = detachedSysProcAttr()

	if err := cmd.Start(); err != nil {
		p.closeLogs()
		return &LaunchError{Server: name, ExitCode: -1, Err: err}
	}

	// The entry is already visible in the active table, and Status reads
	// these fields under the registry lock while the grace window runs.
	s.mu.Lock()
	p.cmd = cmd
	p.proc = cmd.Process
	p.pid = cmd.Process.Pid
	p.port = port
	p.startedAt = time.Now()
	s.mu.Unlock()

	go func() {
		err := cmd.Wait()
		p.exitCode = exitCodeOf(cmd, err)
		close(p.waitDone)
	}()

	// Grace window: a child that dies right away is a launch failure, and
	// its stderr tail is the most useful thing we can hand back.
	select {
	case <-p.waitDone:
		p.closeLogs()
		return &LaunchError{
			Server:   name,
			ExitCode: p.exitCode,
			Stderr:   tailOf(p.errPath),
			Err:      fmt.Errorf("process exited with code %d during startup", p.exitCode),
		}
	case <-time.After(s.graceWindow):
	}
	return nil
}

// openLogs opens (truncating) the per-server stdout and stderr log files.
func (s *Supervisor) openLogs(p *serverProcess) error {
	p.logPath = filepath.Join(s.logDir, p.def.Name+".out.log")
	p.errPath = filepath.Join(s.logDir, p.def.Name+".err.log")

	logFile, err := os.Create(p.logPath)
	if err != nil {
		return fmt.Errorf("failed to open stdout log: %w", err)
	}
	errFile, err := os.Create(p.errPath)
	if err != nil {
		logFile.Close()
		return fmt.Errorf("failed to open stderr log: %w", err)
	}
	p.logFile = logFile
	p.errFile = errFile
	return nil
}

// composeEnv builds the child environment: the inherited environment,
// PORT for the assigned port, then definition-level overrides. An
// override with an empty value unsets the variable.
func composeEnv(base []string, port int, overrides map[string]string) []string {
	env := make(map[string]string, len(base)+len(overrides)+1)
	var order []string
	for _, kv := range base {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, seen := env[k]; !seen {
			order = append(order, k)
		}
		env[k] = v
	}
	if _, seen := env["PORT"]; !seen {
		order = append(order, "PORT")
	}
	env["PORT"] = fmt.Sprintf("%d", port)
	for k, v := range overrides {
		if v == "" {
			delete(env, k)
			continue
		}
		if _, seen := env[k]; !seen {
			order = append(order, k)
		}
		env[k] = v
	}

	out := make([]string, 0, len(env))
	for _, k := range order {
		if v, ok := env[k]; ok {
			out = append(out, k+"="+v)
		}
	}
	return out
}

// tailOf returns the last stderrTailBytes of the file at path.
func tailOf(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if len(data) > stderrTailBytes {
		data = data[len(data)-stderrTailBytes:]
	}
	return strings.TrimSpace(string(data))
}

// exitCodeOf extracts the child's exit code after Wait has returned.
func exitCodeOf(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
