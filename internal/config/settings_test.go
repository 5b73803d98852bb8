package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s == nil {
		t.Fatal("DefaultSettings returned nil")
	}
	if s.RefreshSeconds != 1 {
		t.Errorf("RefreshSeconds = %d, want 1", s.RefreshSeconds)
	}
	if s.ExportFormat != "csv" {
		t.Errorf("ExportFormat = %q, want csv", s.ExportFormat)
	}
	if s.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", s.OutputDir)
	}
	if !s.ServiceNames {
		t.Error("ServiceNames should be true by default")
	}
	if !s.DockerContainers {
		t.Error("DockerContainers should be true by default")
	}
}

func TestLoadSettings_ReturnsDefaultsWhenNoFile(t *testing.T) {
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s == nil {
		t.Fatal("LoadSettings returned nil")
	}
	if s.RefreshSeconds < MinRefreshSeconds || s.RefreshSeconds > MaxRefreshSeconds {
		t.Errorf("RefreshSeconds = %d, outside [%d, %d]", s.RefreshSeconds, MinRefreshSeconds, MaxRefreshSeconds)
	}
}

func TestSettings_YAMLRoundtrip(t *testing.T) {
	original := &Settings{
		RefreshSeconds:   5,
		ExportFormat:     "yaml",
		OutputDir:        "/tmp/snaps",
		ServiceNames:     false,
		DockerContainers: true,
	}

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("yaml.Marshal failed: %v", err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}

	if loaded != *original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", loaded, *original)
	}
}

func TestSettings_ParsesYAMLTags(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "settings.yaml")

	content := "refreshSeconds: 10\nexportFormat: json\noutputDir: out\nserviceNames: false\ndockerContainers: false\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}

	if s.RefreshSeconds != 10 {
		t.Errorf("RefreshSeconds = %d, want 10", s.RefreshSeconds)
	}
	if s.ExportFormat != "json" {
		t.Errorf("ExportFormat = %q, want json", s.ExportFormat)
	}
	if s.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want out", s.OutputDir)
	}
	if s.ServiceNames {
		t.Error("ServiceNames should be false")
	}
	if s.DockerContainers {
		t.Error("DockerContainers should be false")
	}
}

func TestSettings_NormalizeClampsBadValues(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "refresh below minimum",
			in:   Settings{RefreshSeconds: 0, ExportFormat: "csv", OutputDir: "."},
			want: Settings{RefreshSeconds: 1, ExportFormat: "csv", OutputDir: "."},
		},
		{
			name: "refresh above maximum",
			in:   Settings{RefreshSeconds: 3600, ExportFormat: "csv", OutputDir: "."},
			want: Settings{RefreshSeconds: 1, ExportFormat: "csv", OutputDir: "."},
		},
		{
			name: "unknown format",
			in:   Settings{RefreshSeconds: 2, ExportFormat: "xml", OutputDir: "."},
			want: Settings{RefreshSeconds: 2, ExportFormat: "csv", OutputDir: "."},
		},
		{
			name: "empty output dir",
			in:   Settings{RefreshSeconds: 2, ExportFormat: "json", OutputDir: ""},
			want: Settings{RefreshSeconds: 2, ExportFormat: "json", OutputDir: "."},
		},
		{
			name: "valid settings untouched",
			in:   Settings{RefreshSeconds: 30, ExportFormat: "yaml", OutputDir: "snaps"},
			want: Settings{RefreshSeconds: 30, ExportFormat: "yaml", OutputDir: "snaps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.in
			s.normalize()
			if s != tt.want {
				t.Errorf("normalize() = %+v, want %+v", s, tt.want)
			}
		})
	}
}

func TestCurrentSettings_InitializedOnPackageLoad(t *testing.T) {
	if CurrentSettings == nil {
		t.Error("CurrentSettings should be initialized on package load")
	}
}

func TestInitSettings(t *testing.T) {
	// Save original
	original := CurrentSettings

	err := InitSettings()
	if err != nil {
		t.Fatalf("InitSettings failed: %v", err)
	}

	if CurrentSettings == nil {
		t.Error("CurrentSettings should not be nil after InitSettings")
	}

	// Restore
	CurrentSettings = original
}
