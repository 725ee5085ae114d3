package settings

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SettingsService manages reading/writing settings from disk.
type SettingsService struct {
	ctx      context.Context
	path     string
	mu       sync.Mutex
	observer Observer
}

// NewSettingsService returns a service for the settings file next to the executable.
func NewSettingsService() *SettingsService {
	path, err := settingsFilePath()
	if err != nil {
		path = FileName
	}
	return &SettingsService{path: path}
}

// NewSettingsServiceAt returns a service for the settings file at path.
func NewSettingsServiceAt(path string) *SettingsService {
	return &SettingsService{path: path}
}

// SetObserver allows the main function to inject the component that applies changed settings
func (s *SettingsService) SetObserver(o Observer) {
	s.observer = o
}

// Startup receives the Wails context
func (s *SettingsService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// Path returns the settings file location.
func (s *SettingsService) Path() string {
	return s.path
}

// GetSettings returns the effective settings (defaults overlaid with file overrides if any).
func (s *SettingsService) GetSettings() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readSettings(s.path)
}

// SaveSettings saves only the values that differ from defaults into YAML.
// Fields the settings dialog does not show are kept from the file when the
// incoming value is empty.
func (s *SettingsService) SaveSettings(in Settings) error {
	s.mu.Lock()
	old, err := readSettings(s.path)
	if err != nil {
		old = Defaults()
	}
	if strings.TrimSpace(in.InstanceID) == "" {
		in.InstanceID = old.InstanceID
	}
	if in.RecentFiles == nil {
		in.RecentFiles = old.RecentFiles
	}
	if in.WindowWidth == 0 {
		in.WindowWidth = old.WindowWidth
	}
	if in.WindowHeight == 0 {
		in.WindowHeight = old.WindowHeight
	}
	err = s.write(overrides(in))
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.observer != nil {
		if applied, err := s.GetSettings(); err == nil {
			s.observer.ApplySettings(applied)
		}
	}
	return nil
}

// write replaces the settings file with data, or removes it when data is empty.
// Caller must hold s.mu.
func (s *SettingsService) write(data map[string]any) error {
	if len(data) == 0 {
		// If there is an existing file, remove it to reflect defaults-only state
		if _, statErr := os.Stat(s.path); statErr == nil {
			_ = os.Remove(s.path)
		}
		return nil
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// EnsureInstanceID generates and saves a unique instance ID if one doesn't exist
func (s *SettingsService) EnsureInstanceID() (string, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return "", err
	}

	// If instance ID already exists, nothing to do
	if id := strings.TrimSpace(settings.InstanceID); id != "" {
		return id, nil
	}

	settings.InstanceID = uuid.New().String()
	if err := s.SaveSettings(settings); err != nil {
		return "", err
	}
	return settings.InstanceID, nil
}

// GetRecentFiles returns the recently opened files, newest first.
func (s *SettingsService) GetRecentFiles() ([]string, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}
	return settings.RecentFiles, nil
}

// AddRecentFile moves path to the front of the recent files list.
func (s *SettingsService) AddRecentFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	path = filepath.Clean(path)

	settings, err := s.GetSettings()
	if err != nil {
		return err
	}

	recent := make([]string, 0, MaxRecentFiles)
	recent = append(recent, path)
	for _, p := range settings.RecentFiles {
		if p != path && len(recent) < MaxRecentFiles {
			recent = append(recent, p)
		}
	}
	settings.RecentFiles = recent
	return s.SaveSettings(settings)
}

// ClearRecentFiles empties the recent files list.
func (s *SettingsService) ClearRecentFiles() error {
	settings, err := s.GetSettings()
	if err != nil {
		return err
	}
	settings.RecentFiles = []string{}
	return s.SaveSettings(settings)
}
