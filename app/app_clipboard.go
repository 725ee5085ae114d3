package app

import (
	"fmt"

	clipboard "golang.design/x/clipboard"
)

// Maximum clipboard size in bytes (10MB) - helps avoid X11 BadLength errors on Linux
const maxClipboardSize = 10 * 1024 * 1024

// safeClipboardWrite attempts to write data to clipboard with panic recovery.
// Returns an error if the write fails or data is too large.
func safeClipboardWrite(format clipboard.Format, data []byte) (err error) {
	if len(data) > maxClipboardSize {
		return fmt.Errorf("data too large for clipboard (%d bytes, max %d bytes)", len(data), maxClipboardSize)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard write failed: %v", r)
		}
	}()

	clipboard.Write(format, data)
	return nil
}

// initClipboard initialises the system clipboard once.
func (a *App) initClipboard() bool {
	a.clipOnce.Do(func() {
		if err := clipboard.Init(); err == nil {
			a.clipOK = true
		} else {
			a.clipOK = false
			a.Log("error", fmt.Sprintf("Clipboard init failed: %v", err))
		}
	})
	return a.clipOK
}

// CopyTextToAnnotate puts the text of the row at rowIndex on the clipboard.
func (a *App) CopyTextToAnnotate(rowIndex int) (bool, error) {
	row, err := a.session.Row(rowIndex)
	if err != nil {
		return false, err
	}
	if !a.initClipboard() {
		return false, fmt.Errorf("clipboard not available")
	}
	if err := safeClipboardWrite(clipboard.FmtText, []byte(row.TextToAnnotate)); err != nil {
		a.Log("error", fmt.Sprintf("Clipboard write failed: %v", err))
		return false, err
	}
	a.Log("info", fmt.Sprintf("Copied text of row %d to clipboard", rowIndex+1))
	return true, nil
}
