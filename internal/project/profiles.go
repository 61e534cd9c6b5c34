package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// DefaultProfilePath returns the default engine profile location, ~/.slotplan/profile.toml.
func DefaultProfilePath() string {
	return filepath.Join(DefaultConfigDir(), "profile.toml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadEngineProfile reads an engine configuration from a .toml or .json file.
// Scalar fields missing from the file keep their built-in defaults; a box
// table or elevation list, when present, replaces the default one entirely.
// The result is validated before it is returned.
func LoadEngineProfile(path string) (model.EngineConfig, error) {
	defaults := model.DefaultEngineConfig()
	cfg := defaults
	cfg.BoxTypes = nil
	cfg.FloorElevations = nil

	if isTOML(path) {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return model.EngineConfig{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return model.EngineConfig{}, fmt.Errorf("profile %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return model.EngineConfig{}, fmt.Errorf("failed to read profile: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return model.EngineConfig{}, fmt.Errorf("failed to parse profile %s: %w", path, err)
		}
	}

	if len(cfg.BoxTypes) == 0 {
		cfg.BoxTypes = defaults.BoxTypes
	}
	if len(cfg.FloorElevations) == 0 {
		cfg.FloorElevations = defaults.FloorElevations
	}

	if err := cfg.Validate(); err != nil {
		return model.EngineConfig{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return cfg, nil
}

// SaveEngineProfile writes an engine configuration as TOML or JSON depending
// on the file extension. It creates any missing parent directories.
func SaveEngineProfile(path string, cfg model.EngineConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	if !isTOML(path) {
		return writeJSON(path, cfg)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return f.Close()
}

// LoadProfileOrDefault loads the profile at path, or returns the built-in
// configuration when path is empty.
func LoadProfileOrDefault(path string) (model.EngineConfig, error) {
	if path == "" {
		return model.DefaultEngineConfig(), nil
	}
	return LoadEngineProfile(path)
}
