package hoststate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ProcessRecord describes one launched tool server, persisted so that a
// later toolhost invocation can find, inspect and stop servers it did not
// launch itself.
type ProcessRecord struct {
	Name      string    `json:"name"`
	PID       int       `json:"pid"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"started_at"`
	LogPath   string    `json:"log_path,omitempty"`
	ErrPath   string    `json:"err_path,omitempty"`
}

// State holds the persisted supervisor state.
type State struct {
	Version int                       `json:"version"`
	Records map[string]*ProcessRecord `json:"records"`

	mu       sync.Mutex
	filePath string
}

const stateVersion = 1

// StateFilePath returns the path to the supervisor state file.
func StateFilePath() string {
	home, err := HomeDir()
	if err != nil {
		userHome, _ := os.UserHomeDir()
		home = filepath.Join(userHome, ".toolhost")
	}
	return filepath.Join(home, "state.json")
}

// NewState creates a new empty state.
func NewState() *State {
	return &State{
		Version:  stateVersion,
		Records:  make(map[string]*ProcessRecord),
		filePath: StateFilePath(),
	}
}

// LoadState loads supervisor state from disk.
// Returns a new empty state if the file doesn't exist.
func LoadState() (*State, error) {
	fp := StateFilePath()

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("failed to read supervisor state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse supervisor state: %w", err)
	}
	state.filePath = fp
	if state.Records == nil {
		state.Records = make(map[string]*ProcessRecord)
	}
	return &state, nil
}

// Save writes the state to disk. Writes through a temp file so a crash
// mid-write never leaves a truncated document behind.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal supervisor state: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write supervisor state: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("failed to replace supervisor state: %w", err)
	}
	return nil
}

// Put inserts or replaces the record for a server.
func (s *State) Put(rec *ProcessRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records[rec.Name] = rec
}

// Remove deletes the record for a server. Removing an absent name is a no-op.
func (s *State) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Records, name)
}

// Get returns a copy of the record for a server, or nil.
func (s *State) Get(name string) *ProcessRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.Records[name]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

// Snapshot returns a copy of all records.
func (s *State) Snapshot() map[string]ProcessRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]ProcessRecord, len(s.Records))
	for name, rec := range s.Records {
		out[name] = *rec
	}
	return out
}

// StateExists reports whether a state file is present on disk.
func StateExists() bool {
	_, err := os.Stat(StateFilePath())
	return err == nil
}

// ClearState removes the state file.
func ClearState() error {
	err := os.Remove(StateFilePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}
