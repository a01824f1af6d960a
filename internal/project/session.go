// Package project persists inspection sessions and application
// configuration as JSON files under the user's home directory.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/holemap/holemap/internal/model"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.holemap/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".holemap")
}

// DefaultSessionsDir returns the default directory for saved sessions.
func DefaultSessionsDir() string {
	return filepath.Join(DefaultConfigDir(), "sessions")
}

// SaveSession persists a session to the given path as indented JSON,
// creating missing parent directories. The session's UpdatedAt timestamp
// is refreshed before writing.
func SaveSession(path string, session *model.InspectionSession) error {
	if session == nil {
		return errors.New("nil session")
	}
	session.Touch()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSession reads a session from the given path.
func LoadSession(path string) (model.InspectionSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.InspectionSession{}, fmt.Errorf("failed to read session file: %w", err)
	}
	var session model.InspectionSession
	if err := json.Unmarshal(data, &session); err != nil {
		return model.InspectionSession{}, fmt.Errorf("failed to parse session file: %w", err)
	}
	if session.Holes == nil {
		session.Holes = []model.Hole{}
	}
	return session, nil
}
