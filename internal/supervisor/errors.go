package supervisor

import "fmt"

// LaunchError reports that a server could not be spawned, or exited within
// the launch grace window. Stderr carries the tail of the child's captured
// stderr when the process ran long enough to produce any.
type LaunchError struct {
	Server   string
	ExitCode int // -1 when the process never started
	Stderr   string
	Err      error
}

func (e *LaunchError) Error() string {
	msg := fmt.Sprintf("failed to launch server %q: %v", e.Server, e.Err)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *LaunchError) Unwrap() error { return e.Err }

// ServerUnavailableError reports that a call was routed to a server that
// is not running and could not be started.
type ServerUnavailableError struct {
	Server string
	Err    error
}

func (e *ServerUnavailableError) Error() string {
	return fmt.Sprintf("server %q unavailable: %v", e.Server, e.Err)
}

func (e *ServerUnavailableError) Unwrap() error { return e.Err }

// CallError reports a transport failure or error response from a running
// server. The supervisor does not retry; whether to retry, and on what
// schedule, is the caller's decision.
type CallError struct {
	Server    string
	Tool      string
	RequestID string
	Err       error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("tool call %s/%s failed: %v", e.Server, e.Tool, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
