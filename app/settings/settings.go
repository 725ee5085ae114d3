package settings

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file kept next to the executable.
const FileName = "babsa.yml"

// GetEffectiveSettings returns the effective settings (defaults overlaid with file overrides if any).
// If anything goes wrong, it returns defaults.
func GetEffectiveSettings() Settings {
	path, err := settingsFilePath()
	if err != nil {
		return Defaults()
	}
	settings, err := readSettings(path)
	if err != nil {
		return Defaults()
	}
	return settings
}

// readSettings overlays the keys present in the file at path onto the defaults.
// A missing file gives the defaults and no error.
func readSettings(path string) (Settings, error) {
	settings := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}
	// Unmarshal into a generic map to detect key presence
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return settings, err
	}
	overlay(&settings, m)
	return settings, nil
}

// overlay applies the recognised keys of m to settings. Values of the wrong
// type or out of range are ignored.
func overlay(settings *Settings, m map[string]any) {
	if v, ok := m["sentiments"]; ok {
		if list := stringList(v); len(list) > 0 {
			settings.Sentiments = list
		}
	}
	if v, ok := m["default_annotation_column"]; ok {
		if vs, oks := v.(string); oks {
			settings.DefaultAnnotationColumn = strings.TrimSpace(vs)
		}
	}
	if v, ok := m["watch_file_changes"]; ok {
		if vb, okb := v.(bool); okb {
			settings.WatchFileChanges = vb
		}
	}
	if v, ok := m["log_level"]; ok {
		if vs, oks := v.(string); oks && validLogLevels[strings.ToLower(vs)] {
			settings.LogLevel = strings.ToLower(vs)
		}
	}
	if v, ok := m["log_format"]; ok {
		if vs, oks := v.(string); oks && validLogFormats[strings.ToLower(vs)] {
			settings.LogFormat = strings.ToLower(vs)
		}
	}
	if v, ok := m["window_width"]; ok {
		if vi, oki := v.(int); oki && vi >= 400 {
			settings.WindowWidth = vi
		}
	}
	if v, ok := m["window_height"]; ok {
		if vi, oki := v.(int); oki && vi >= 300 {
			settings.WindowHeight = vi
		}
	}
	if v, ok := m["instance_id"]; ok {
		if vs, oks := v.(string); oks {
			settings.InstanceID = vs
		}
	}
	if v, ok := m["recent_files"]; ok {
		settings.RecentFiles = stringList(v)
		if len(settings.RecentFiles) > MaxRecentFiles {
			settings.RecentFiles = settings.RecentFiles[:MaxRecentFiles]
		}
	}
}

// stringList returns the non-blank strings of a YAML sequence.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// overrides builds a minimal map containing only non-default values to avoid
// zero-value serialization pitfalls.
func overrides(in Settings) map[string]any {
	data := make(map[string]any)
	if len(in.Sentiments) > 0 && !slices.Equal(in.Sentiments, defaultSettings.Sentiments) {
		data["sentiments"] = in.Sentiments
	}
	if col := strings.TrimSpace(in.DefaultAnnotationColumn); col != "" {
		data["default_annotation_column"] = col
	}
	if in.WatchFileChanges != defaultSettings.WatchFileChanges {
		data["watch_file_changes"] = in.WatchFileChanges
	}
	if lvl := strings.ToLower(in.LogLevel); validLogLevels[lvl] && lvl != defaultSettings.LogLevel {
		data["log_level"] = lvl
	}
	if f := strings.ToLower(in.LogFormat); validLogFormats[f] && f != defaultSettings.LogFormat {
		data["log_format"] = f
	}
	if in.WindowWidth != defaultSettings.WindowWidth && in.WindowWidth >= 400 {
		data["window_width"] = in.WindowWidth
	}
	if in.WindowHeight != defaultSettings.WindowHeight && in.WindowHeight >= 300 {
		data["window_height"] = in.WindowHeight
	}
	if id := strings.TrimSpace(in.InstanceID); id != "" {
		data["instance_id"] = id
	}
	if len(in.RecentFiles) > 0 {
		data["recent_files"] = in.RecentFiles
	}
	return data
}

func settingsFilePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(exe)
	return filepath.Join(dir, FileName), nil
}
