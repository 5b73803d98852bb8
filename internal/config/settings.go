package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds user-configurable options.
type Settings struct {
	RefreshSeconds   int    `yaml:"refreshSeconds"`   // Poll interval for the live view
	ExportFormat     string `yaml:"exportFormat"`     // Default snapshot format: csv, json or yaml
	OutputDir        string `yaml:"outputDir"`        // Directory snapshots are written under
	ServiceNames     bool   `yaml:"serviceNames"`     // Annotate well-known ports with service names
	DockerContainers bool   `yaml:"dockerContainers"` // Resolve published ports to container names
}

// DefaultSettings returns the default settings.
func DefaultSettings() *Settings {
	return &Settings{
		RefreshSeconds:   1,
		ExportFormat:     "csv",
		OutputDir:        ".",
		ServiceNames:     true, // On by default (no overhead)
		DockerContainers: true, // On by default
	}
}

// settingsPath returns the path to the settings file.
func settingsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "portwatch", "settings.yaml"), nil
}

// LoadSettings loads settings from disk, returning defaults if not found.
func LoadSettings() (*Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return DefaultSettings(), nil
	}

	// #nosec G304 - path is constructed from trusted sources
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), err
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return DefaultSettings(), err
	}
	settings.normalize()

	return settings, nil
}

// normalize clamps values a hand-edited file may have broken.
func (s *Settings) normalize() {
	if s.RefreshSeconds < MinRefreshSeconds || s.RefreshSeconds > MaxRefreshSeconds {
		s.RefreshSeconds = DefaultSettings().RefreshSeconds
	}
	switch s.ExportFormat {
	case "csv", "json", "yaml":
	default:
		s.ExportFormat = DefaultSettings().ExportFormat
	}
	if s.OutputDir == "" {
		s.OutputDir = "."
	}
}

// Refresh interval bounds for the live view.
const (
	MinRefreshSeconds = 1
	MaxRefreshSeconds = 60
)

// SaveSettings writes settings to disk.
func SaveSettings(s *Settings) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// CurrentSettings holds the loaded settings (singleton).
var CurrentSettings *Settings

// InitSettings initializes the global settings.
func InitSettings() error {
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	CurrentSettings = settings
	return nil
}

func init() {
	// Initialize with default settings on package load
	CurrentSettings = DefaultSettings()
}
