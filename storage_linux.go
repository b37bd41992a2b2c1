//go:build linux

package modelsync

import (
	"os"
	"path/filepath"
)

// defaultDataDir returns the default data directory for Linux.
// Uses $XDG_DATA_HOME/<appName>/modelsync/ if set,
// otherwise ~/.local/share/<appName>/modelsync/
func defaultDataDir(appName string) (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, appName, "modelsync"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "modelsync"), nil
}
