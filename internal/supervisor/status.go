package supervisor

import (
	"fmt"
	"time"

	"github.com/zhubert/toolhost/internal/model"
)

// Status returns a snapshot of one server's state.
func (s *Supervisor) Status(name string) (model.ServerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.defs[name]; !ok {
		if _, active := s.active[name]; !active {
			return model.ServerStatus{}, fmt.Errorf("server %q not found in configuration", name)
		}
	}
	return s.statusLocked(name), nil
}

// AllStatus returns a snapshot of every configured server's state.
func (s *Supervisor) AllStatus() map[string]model.ServerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.ServerStatus, len(s.order))
	for _, name := range s.order {
		out[name] = s.statusLocked(name)
	}
	return out
}

func (s *Supervisor) statusLocked(name string) model.ServerStatus {
	st := model.ServerStatus{Name: name, State: model.ServerStopped}
	if s.crashed[name] {
		st.State = model.ServerCrashed
	}
	if code, ok := s.lastExit[name]; ok {
		c := code
		st.LastExitCode = &c
	}
	if p, ok := s.active[name]; ok {
		st.State = p.state
		st.Running = p.state == model.ServerRunning
		st.Port = p.port
		st.PID = p.pid
		if !p.startedAt.IsZero() {
			st.Uptime = time.Since(p.startedAt).Truncate(time.Second)
		}
	}
	return st
}
