package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/holemap/holemap/internal/model"
)

// BackupData is the top-level structure for import/export of all
// application data: the config plus every saved session.
type BackupData struct {
	Version   string                    `json:"version"`
	CreatedAt string                    `json:"created_at"`
	Config    AppConfig                 `json:"config"`
	Sessions  []model.InspectionSession `json:"sessions"`
}

// ExportAllData exports the config and sessions to a single JSON file.
func ExportAllData(exportPath string, config AppConfig, sessions []model.InspectionSession) error {
	backup := BackupData{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Sessions:  sessions,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config and saving
// the sessions.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	return backup, nil
}

// LoadAllSessions reads every session file in dir, typically
// DefaultSessionsDir. A missing directory yields an empty list; files
// that fail to parse are skipped so one corrupt session cannot block a
// backup.
func LoadAllSessions(dir string) ([]model.InspectionSession, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}
	var sessions []model.InspectionSession
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		session, err := LoadSession(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// RestoreSessions writes backed-up sessions into dir, one file per
// session keyed by its id.
func RestoreSessions(dir string, sessions []model.InspectionSession) error {
	for i := range sessions {
		path := filepath.Join(dir, sessions[i].ID+".json")
		if err := SaveSession(path, &sessions[i]); err != nil {
			return err
		}
	}
	return nil
}
