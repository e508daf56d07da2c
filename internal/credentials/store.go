// Package credentials provides the file-backed token store for the backup
// service.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillvault/skillvault/internal/util"
)

const storeVersion = "1.0"

// Filename is the name of the credentials file inside the config directory.
const Filename = "credentials.json"

type credentialsFile struct {
	Version string `json:"version"`
	Token   string `json:"token"`
}

// Store reads and writes the backup service token. The file is created with
// owner-only permissions.
type Store struct {
	path string
}

// NewStore creates a store at the given path. An empty path uses the
// default location inside the config directory.
func NewStore(path string) *Store {
	if path == "" {
		path = filepath.Join(util.ConfigDir(), Filename)
	}
	return &Store{path: path}
}

// Token returns the stored token, or empty when none has been saved.
func (s *Store) Token() (string, error) {
	data, err := os.ReadFile(s.path) // #nosec G304 - path is inside the config dir
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}

	var f credentialsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return f.Token, nil
}

// Save writes the token, creating the config directory if needed.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(credentialsFile{Version: storeVersion, Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}
