package supervisor

import (
	"context"
	"time"

	"github.com/zhubert/toolhost/internal/model"
)

// Run is the health monitor: a single background loop polling on a fixed
// interval and reconciling processes that exited on their own out of the
// active table. It never restarts a crashed server — restart happens
// lazily on the next routed call, a caller-side decision, so a
// crash-looping server cannot turn into a restart storm here. Blocks
// until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	s.logger.Info("health monitor starting", "interval", s.monitorInterval)
	ticker := time.NewTicker(s.monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("health monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			s.Reconcile()
		}
	}
}

// Reconcile sweeps the active table once, removing entries whose process
// has exited. Exit detection is a non-blocking read of each process's
// wait result, so one wedged server can never stall the sweep for the
// others.
func (s *Supervisor) Reconcile() {
	var removed []string

	s.mu.Lock()
	for name, p := range s.active {
		if p.state != model.ServerRunning {
			continue // launch still in flight; the grace window owns it
		}
		code, known, exited := p.exitStatus()
		if !exited {
			continue
		}
		if known {
			s.logger.Warn("server exited unexpectedly", "server", name, "exitCode", code)
			s.lastExit[name] = code
		} else {
			s.logger.Warn("server exited unexpectedly", "server", name)
		}
		s.crashed[name] = true
		p.closeLogs()
		delete(s.active, name)
		removed = append(removed, name)
	}
	s.mu.Unlock()

	for _, name := range removed {
		s.persistRemove(name)
	}
}
