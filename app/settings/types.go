package settings

import "babsa/app/table"

// MaxRecentFiles caps the recent files list.
const MaxRecentFiles = 10

// Settings holds application settings that can be overridden by the user.
type Settings struct {
	// Sentiment labels offered when adding an annotation. Free text is still accepted.
	Sentiments []string `yaml:"sentiments" json:"sentiments"`
	// Header selected as annotation column after a load, when the file has it
	DefaultAnnotationColumn string `yaml:"default_annotation_column" json:"default_annotation_column"`
	// Notify the frontend when the open file is changed by another program
	WatchFileChanges bool `yaml:"watch_file_changes" json:"watch_file_changes"`
	// Logging: level is one of debug, info, warn, error; format is text or json
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
	// Window size settings (not visible in settings dialog, but persisted)
	WindowWidth  int `yaml:"window_width,omitempty" json:"window_width,omitempty"`
	WindowHeight int `yaml:"window_height,omitempty" json:"window_height,omitempty"`
	// InstanceID is a unique identifier for this installation (not visible in settings dialog)
	InstanceID string `yaml:"instance_id,omitempty" json:"instance_id,omitempty"`
	// Most recently opened files, newest first
	RecentFiles []string `yaml:"recent_files,omitempty" json:"recent_files,omitempty"`
}

// Observer is told about the new settings after every successful save.
// This breaks the circular dependency between app and settings packages.
type Observer interface {
	ApplySettings(s Settings)
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validLogFormats = map[string]bool{"text": true, "json": true}

// defaultSettings defines the built-in defaults.
var defaultSettings = Settings{
	Sentiments:       table.DefaultSentiments,
	WatchFileChanges: true,
	LogLevel:         "info",
	LogFormat:        "text",
	// Default window size (matches main.go defaults)
	WindowWidth:  1024,
	WindowHeight: 768,
}

// Defaults returns a copy of the built-in defaults.
func Defaults() Settings {
	s := defaultSettings
	s.Sentiments = append([]string{}, defaultSettings.Sentiments...)
	return s
}
