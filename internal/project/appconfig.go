// Package project persists slotplan data on disk: user preferences, engine
// profiles, layout files and backups.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// HomeEnv overrides the configuration directory when set.
const HomeEnv = "SLOTPLAN_HOME"

// DefaultConfigDir returns the directory holding the config and the default
// profile: $SLOTPLAN_HOME if set, otherwise ~/.slotplan.
func DefaultConfigDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".slotplan")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// writeJSON marshals v and replaces path with it through a temp file in the
// same directory, so readers never see a partial file.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SaveAppConfig persists an AppConfig to the given path as JSON, creating
// missing parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := writeJSON(path, config); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}

// LoadAppConfig reads an AppConfig from the given path. A missing file yields
// DefaultAppConfig; fields missing from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.DefaultAppConfig(), nil
	}
	if err != nil {
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if config.RecentLayouts == nil {
		config.RecentLayouts = []string{}
	}
	return config, nil
}

// UpdateAppConfig loads the config at path, applies fn and saves the result.
// Nothing is written when fn returns an error.
func UpdateAppConfig(path string, fn func(*model.AppConfig) error) (model.AppConfig, error) {
	config, err := LoadAppConfig(path)
	if err != nil {
		return model.AppConfig{}, err
	}
	if err := fn(&config); err != nil {
		return model.AppConfig{}, err
	}
	if err := SaveAppConfig(path, config); err != nil {
		return model.AppConfig{}, err
	}
	return config, nil
}
