package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"babsa/app/annotation"
	"babsa/app/logging"
	"babsa/app/settings"
	"babsa/app/watch"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// App struct
type App struct {
	ctx context.Context

	session  *annotation.Session
	settings *settings.SettingsService

	// on-disk change watcher for the loaded file
	watchMu sync.Mutex
	watcher *watch.FileWatcher
	watchOn bool

	// clipboard init
	clipOnce sync.Once
	clipOK   bool

	// events replaces the Wails event bus when set
	events func(name string, data ...any)
}

// NewApp creates a new App application struct
func NewApp(settingsService *settings.SettingsService) *App {
	if settingsService == nil {
		settingsService = settings.NewSettingsService()
	}
	a := &App{
		session:  annotation.NewSession(),
		settings: settingsService,
	}
	a.session.SetStatusListener(a.onStatus)

	current, err := settingsService.GetSettings()
	if err != nil {
		slog.Warn("Failed to read settings, using defaults", "path", settingsService.Path(), "error", err)
	}
	a.ApplySettings(current)
	return a
}

// Startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.settings.Startup(ctx)

	if id, err := a.settings.EnsureInstanceID(); err != nil {
		a.Log("warn", fmt.Sprintf("Failed to store instance ID: %v", err))
	} else {
		a.Log("debug", fmt.Sprintf("Instance %s started", id))
	}
	a.Log("info", annotation.ReadyStatus)
}

// Shutdown stops the file watcher.
func (a *App) Shutdown(ctx context.Context) {
	a.stopWatcher()
}

// Ctx returns the app context
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Session returns the session holding the open document.
func (a *App) Session() *annotation.Session {
	return a.session
}

// ApplySettings updates the running app after the settings changed.
func (a *App) ApplySettings(s settings.Settings) {
	a.session.SetPreferredColumn(s.DefaultAnnotationColumn)
	if err := logging.SetLevel(s.LogLevel); err != nil {
		slog.Warn("Ignoring log level from settings", "error", err)
	}

	a.watchMu.Lock()
	a.watchOn = s.WatchFileChanges
	a.watchMu.Unlock()
	if !s.WatchFileChanges {
		a.stopWatcher()
	} else if path := a.session.Path(); path != "" {
		a.startWatcher(path)
	}
}

// Log emits a structured log event to the frontend console window and to slog.
func (a *App) Log(level, message string) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	slog.Log(context.Background(), lvl, message)

	a.emit("log", map[string]any{
		"level":   level,
		"message": message,
	})
}

// emit sends an event to the frontend. It is a no-op before Startup.
func (a *App) emit(name string, data ...any) {
	if a == nil {
		return
	}
	if a.events != nil {
		a.events(name, data...)
		return
	}
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, data...)
}

func (a *App) onStatus(state annotation.State, status string) {
	a.emit("status", StatusEvent{State: state.String(), Status: status})
}

// GetStatus returns the session state for the frontend to derive enabled actions.
func (a *App) GetStatus() StatusInfo {
	return StatusInfo{
		State:   a.session.State().String(),
		Status:  a.session.Status(),
		Column:  a.session.Column(),
		Path:    a.session.Path(),
		Busy:    a.session.Busy(),
		CanSave: a.session.CanSave(),
	}
}

// GetSentiments returns the sentiment labels offered in the annotation form.
func (a *App) GetSentiments() []string {
	s, err := a.settings.GetSettings()
	if err != nil || len(s.Sentiments) == 0 {
		return settings.Defaults().Sentiments
	}
	return s.Sentiments
}

// GetRecentFiles returns the recently opened files, newest first.
func (a *App) GetRecentFiles() []string {
	recent, err := a.settings.GetRecentFiles()
	if err != nil {
		a.Log("warn", fmt.Sprintf("Failed to read recent files: %v", err))
		return []string{}
	}
	return recent
}

// SaveWindowSize saves the current window dimensions to the settings file
func (a *App) SaveWindowSize(width, height int) error {
	// Validate minimum window size
	if width < 400 || height < 300 {
		return fmt.Errorf("window size too small: minimum 400x300, got %dx%d", width, height)
	}

	current, err := a.settings.GetSettings()
	if err != nil {
		return err
	}
	current.WindowWidth = width
	current.WindowHeight = height
	return a.settings.SaveSettings(current)
}

// GetSavedWindowSize returns the saved window dimensions from settings
func (a *App) GetSavedWindowSize() (width, height int, err error) {
	current, err := a.settings.GetSettings()
	if err != nil {
		current = settings.Defaults()
	}
	return current.WindowWidth, current.WindowHeight, nil
}
