package supervisor

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// CallTool routes a (server, tool, params) request: it makes sure the
// target server is running — starting it on demand — then forwards the
// call over the server's local HTTP endpoint and returns the decoded
// result untouched. A crashed server looks exactly like a stopped one
// here; both get one start attempt per call and nothing more.
func (s *Supervisor) CallTool(ctx context.Context, server, tool string, params map[string]any) (any, error) {
	s.mu.Lock()
	p, active := s.active[server]
	s.mu.Unlock()

	if !active {
		if err := s.Start(server); err != nil {
			return nil, &ServerUnavailableError{Server: server, Err: err}
		}
		s.mu.Lock()
		p = s.active[server]
		s.mu.Unlock()
		if p == nil {
			return nil, &ServerUnavailableError{Server: server, Err: errors.New("server gone after start")}
		}
	} else {
		// An in-flight launch registered the entry; wait for it to settle.
		<-p.ready
		if p.launchErr != nil {
			return nil, &ServerUnavailableError{Server: server, Err: p.launchErr}
		}
	}

	requestID := uuid.NewString()
	s.logger.Debug("routing tool call", "server", server, "tool", tool, "requestId", requestID, "port", p.port)

	result, err := s.client.Call(ctx, p.port, tool, params, requestID)
	if err != nil {
		// The process stays up: a timed-out or failed call is not evidence
		// the server is dead, and killing it is not this layer's decision.
		s.logger.Warn("tool call failed", "server", server, "tool", tool, "requestId", requestID, "error", err)
		return nil, &CallError{Server: server, Tool: tool, RequestID: requestID, Err: err}
	}
	return result, nil
}
