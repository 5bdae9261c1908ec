// Package ports assigns local TCP ports to tool servers.
//
// Assignment is deterministic: each configured server gets basePort+index
// in definition order, so two configured servers can never collide by
// construction. Because an unrelated process may already hold an assigned
// port, Resolve probes before every launch and searches upward within a
// bounded window when the port is taken, recording the override.
package ports

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultBasePort is the first port handed out when none is configured.
	DefaultBasePort = 4000

	// DefaultWindow bounds the upward search for a free port when the
	// assigned one is occupied by an unrelated process.
	DefaultWindow = 100

	// probeTimeout bounds a single connect probe.
	probeTimeout = 250 * time.Millisecond
)

// WindowError reports that no free port was found within the search window.
type WindowError struct {
	Name   string
	From   int
	Window int
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("no free port for server %q in range %d-%d", e.Name, e.From, e.From+e.Window-1)
}

// Allocator hands out mutually exclusive ports for named servers.
// All assignment goes through the allocator's lock, so two servers being
// launched concurrently can never race onto the same port.
type Allocator struct {
	base   int
	window int

	mu       sync.Mutex
	assigned map[string]int
}

// NewAllocator assigns basePort+index to each name in order.
// A base of zero uses DefaultBasePort.
func NewAllocator(base int, names []string) *Allocator {
	if base <= 0 {
		base = DefaultBasePort
	}
	a := &Allocator{
		base:     base,
		window:   DefaultWindow,
		assigned: make(map[string]int, len(names)),
	}
	for i, name := range names {
		a.assigned[name] = base + i
	}
	return a
}

// Assigned returns the port currently assigned to a server, if any.
func (a *Allocator) Assigned(name string) (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	port, ok := a.assigned[name]
	return port, ok
}

// Assignments returns a copy of the full port table.
func (a *Allocator) Assignments() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.assigned))
	for name, port := range a.assigned {
		out[name] = port
	}
	return out
}

// Reserve records a known-good port for a server, e.g. one recovered from
// persisted state for a process that is still running.
func (a *Allocator) Reserve(name string, port int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.assigned[name] = port
}

// Resolve returns a launch-ready port for the server: the assigned port if
// nothing is listening on it, otherwise the first free port in the search
// window that is not reserved by another server. Each candidate is claimed
// in the table before it is probed, so concurrent resolves for different
// servers cannot converge on the same port, and the connect probe itself
// runs outside the lock so one slow resolve never stalls the others. The
// same server re-resolving its own port across restarts is fine.
func (a *Allocator) Resolve(name string) (int, error) {
	a.mu.Lock()
	start, ok := a.assigned[name]
	if !ok {
		start = a.base + len(a.assigned)
	}
	a.mu.Unlock()

	for port := start; port < start+a.window; port++ {
		a.mu.Lock()
		if owner, taken := a.holder(port); taken && owner != name {
			a.mu.Unlock()
			continue
		}
		// Claim before probing; a failed probe moves the claim to the
		// next candidate on the following iteration.
		a.assigned[name] = port
		a.mu.Unlock()

		if !Listening(port) {
			return port, nil
		}
	}

	a.mu.Lock()
	a.assigned[name] = start
	a.mu.Unlock()
	return 0, &WindowError{Name: name, From: start, Window: a.window}
}

// holder returns which server a port is currently assigned to.
func (a *Allocator) holder(port int) (string, bool) {
	for name, p := range a.assigned {
		if p == port {
			return name, true
		}
	}
	return "", false
}

// Listening reports whether something accepts TCP connections on the port.
func Listening(port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
