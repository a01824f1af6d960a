package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/holemap/holemap/internal/model"
)

const maxRecentSessions = 10

// AppConfig holds user-level application settings that survive restarts.
type AppConfig struct {
	RecentSessions []string             `json:"recent_sessions"`
	SimDefaults    model.SimSettings    `json:"sim_defaults"`
	ReportDefaults model.ReportSettings `json:"report_defaults"`
	DarkMode       bool                 `json:"dark_mode"`
}

// DefaultAppConfig returns the configuration used on first start.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		RecentSessions: []string{},
		SimDefaults:    model.DefaultSimSettings(),
		ReportDefaults: model.DefaultReportSettings(),
	}
}

// AddRecentSession inserts a path at the front of the recent list,
// dropping duplicates and truncating to the maximum length.
func (c *AppConfig) AddRecentSession(path string) {
	recent := []string{path}
	for _, p := range c.RecentSessions {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentSessions {
		recent = recent[:maxRecentSessions]
	}
	c.RecentSessions = recent
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON,
// creating any missing parent directories.
func SaveAppConfig(path string, config AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. If the file does
// not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultAppConfig(), nil
		}
		return AppConfig{}, err
	}
	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return AppConfig{}, err
	}
	if config.RecentSessions == nil {
		config.RecentSessions = []string{}
	}
	return config, nil
}
