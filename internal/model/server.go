package model

import "time"

// ServerDefinition describes a tool server as loaded from configuration.
// Definitions are immutable once loaded; a config reload replaces the
// whole set rather than mutating entries in place.
type ServerDefinition struct {
	Name    string            `json:"name" yaml:"name"`       // Unique identifier for the server
	Command string            `json:"command" yaml:"command"` // Executable command (e.g., "npx", "node")
	Args    []string          `json:"args" yaml:"args"`       // Command arguments
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Enabled bool              `json:"enabled" yaml:"enabled"`
	Tools   []string          `json:"tools,omitempty" yaml:"tools,omitempty"` // Tool names the server claims to support
}

// HasTool reports whether the definition declares the given tool.
// An empty declared set means the server's tools are unknown, not absent.
func (d ServerDefinition) HasTool(name string) bool {
	for _, t := range d.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// ServerState represents where a server is in its lifecycle.
type ServerState string

const (
	ServerStopped  ServerState = "stopped"
	ServerStarting ServerState = "starting"
	ServerRunning  ServerState = "running"
	ServerCrashed  ServerState = "crashed"
)

// ServerStatus is a point-in-time snapshot of a single server.
type ServerStatus struct {
	Name         string        `json:"name"`
	State        ServerState   `json:"state"`
	Running      bool          `json:"running"`
	Port         int           `json:"port,omitempty"`
	PID          int           `json:"pid,omitempty"`
	Uptime       time.Duration `json:"uptime,omitempty"`
	LastExitCode *int          `json:"last_exit_code,omitempty"`
}
