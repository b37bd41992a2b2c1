package modelsync

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout of a CLI config file.
type fileConfig struct {
	AppName   string `yaml:"app_name"`
	ProjectID string `yaml:"project_id"`
	APIKey    string `yaml:"api_key"`
	BundleID  string `yaml:"bundle_id"`
	Host      string `yaml:"host"`
	DataDir   string `yaml:"data_dir"`
}

// DefaultConfigPath returns the default CLI config file location,
// <user config dir>/modelsync/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "modelsync", "config.yaml"), nil
}

// LoadConfig builds a Config from a YAML file and environment overrides.
//
// A missing file is not an error; the environment alone may supply the
// configuration. Environment variables take precedence over file values:
// MODELSYNC_APP_NAME, MODELSYNC_PROJECT_ID, MODELSYNC_API_KEY,
// MODELSYNC_BUNDLE_ID, MODELSYNC_HOST, MODELSYNC_DATA_DIR.
func LoadConfig(path string) (Config, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Config{
		AppName:   fc.AppName,
		ProjectID: fc.ProjectID,
		APIKey:    fc.APIKey,
		BundleID:  fc.BundleID,
		Host:      fc.Host,
		DataDir:   fc.DataDir,
	}

	overrideFromEnv(&cfg.AppName, "MODELSYNC_APP_NAME")
	overrideFromEnv(&cfg.ProjectID, "MODELSYNC_PROJECT_ID")
	overrideFromEnv(&cfg.APIKey, "MODELSYNC_API_KEY")
	overrideFromEnv(&cfg.BundleID, "MODELSYNC_BUNDLE_ID")
	overrideFromEnv(&cfg.Host, "MODELSYNC_HOST")
	overrideFromEnv(&cfg.DataDir, "MODELSYNC_DATA_DIR")

	return cfg, nil
}

func overrideFromEnv(dst *string, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		*dst = v
	}
}
