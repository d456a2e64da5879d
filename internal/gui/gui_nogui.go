//go:build nogui
// +build nogui

package gui

import (
	"fmt"

	"imgsort/internal/config"
	"imgsort/internal/session"
	"imgsort/internal/watch"
)

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(*config.Config, *session.Session, *watch.Watcher) error {
	fmt.Println("GUI is disabled in this build. Please use the tui or serve commands.")
	return fmt.Errorf("GUI not available in this build")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
