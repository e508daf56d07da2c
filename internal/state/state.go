// Package state persists sync run metadata between invocations.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skillvault/skillvault/internal/util"
)

const (
	// Version is the current version of the state file format
	Version = "1.0"
	// Filename is the name of the state file
	Filename = "state.json"
)

// State records the outcome of the last fully successful sync. LastSyncAt
// is the freshness threshold for auto mode; it advances only when a run
// completes with zero failed actions, so a partially failed run leaves the
// previous threshold in place.
type State struct {
	Version    string `json:"version"`
	LastSyncAt string `json:"last_sync_at"`
	Document   string `json:"document,omitempty"`
}

// DefaultPath returns the state file path inside the config directory.
func DefaultPath() string {
	return filepath.Join(util.ConfigDir(), Filename)
}

// Load reads the state file. A missing file returns a zero state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is inside the config dir
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Version: Version}, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if s.Version != Version {
		// Unknown format, start fresh rather than misread the threshold.
		return &State{Version: Version}, nil
	}
	return &s, nil
}

// Save writes the state file, creating the config directory if needed.
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.Version = Version
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// MarkSynced records a successful sync at the given time against the given
// backup document.
func (s *State) MarkSynced(at time.Time, document string) {
	s.LastSyncAt = at.UTC().Format(time.RFC3339)
	s.Document = document
}
