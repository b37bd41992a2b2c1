//go:build windows

package modelsync

import (
	"os"
	"path/filepath"
)

// defaultDataDir returns the default data directory for Windows.
// Returns %APPDATA%\<appName>\modelsync\
func defaultDataDir(appName string) (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		appData = filepath.Join(home, "AppData", "Roaming")
	}
	return filepath.Join(appData, appName, "modelsync"), nil
}
