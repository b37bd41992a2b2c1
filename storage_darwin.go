//go:build darwin

package modelsync

import (
	"os"
	"path/filepath"
)

// defaultDataDir returns the default data directory for macOS.
// Returns ~/Library/Application Support/<appName>/modelsync/
func defaultDataDir(appName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", appName, "modelsync"), nil
}
