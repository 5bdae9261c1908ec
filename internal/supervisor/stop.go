package supervisor

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// Stop terminates the named server. Not-active is a no-op success, so
// stopping twice, or racing the health monitor's reconciliation of the
// same entry, never errors. Termination is graceful first (SIGTERM, or
// kill where signals don't exist), escalating to a kill when the stop
// timeout elapses.
func (s *Supervisor) Stop(name string) error {
	s.mu.Lock()
	p, ok := s.active[name]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	// Let an in-flight launch settle before signaling it.
	<-p.ready
	if p.launchErr != nil {
		return nil // launch failed, entry already removed
	}

	s.mu.Lock()
	if cur, ok := s.active[name]; !ok || cur != p {
		s.mu.Unlock()
		return nil // already reconciled away
	}
	delete(s.active, name)
	s.mu.Unlock()

	s.logger.Info("stopping server", "server", name, "pid", p.pid)
	if err := terminateProcess(p.proc); err != nil {
		s.logger.Debug("graceful signal failed", "server", name, "error", err)
	}
	if !p.waitExit(s.stopTimeout) {
		s.logger.Warn("server did not stop in time, killing", "server", name, "pid", p.pid)
		if err := p.proc.Kill(); err != nil {
			s.logger.Debug("kill failed", "server", name, "error", err)
		}
		p.waitExit(s.stopTimeout)
	}
	p.closeLogs()
	s.persistRemove(name)
	s.logger.Info("stopped server", "server", name)
	return nil
}

// Restart stops and relaunches the named server, pausing briefly in
// between so the OS can release the port.
func (s *Supervisor) Restart(name string) error {
	if err := s.Stop(name); err != nil {
		return err
	}
	time.Sleep(s.restartDelay)
	return s.Start(name)
}

// StartAll starts every enabled server. Disabled definitions are left
// alone rather than reported as failures. Each server's outcome is
// independent: a nil map value is success, non-nil carries that server's
// failure, and one failure never aborts the batch.
func (s *Supervisor) StartAll() map[string]error {
	s.mu.Lock()
	names := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if s.defs[name].Enabled {
			names = append(names, name)
		}
	}
	s.mu.Unlock()
	return s.forEach(names, s.Start)
}

// StopAll stops every configured server, with the same independent
// per-server outcomes as StartAll. Disabled servers are included; one may
// still be running from before its definition was disabled.
func (s *Supervisor) StopAll() map[string]error {
	s.mu.Lock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	s.mu.Unlock()
	return s.forEach(names, s.Stop)
}

func (s *Supervisor) forEach(names []string, op func(string) error) map[string]error {
	results := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			results[i] = op(name)
			return nil
		})
	}
	g.Wait()

	out := make(map[string]error, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out
}
