package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Config    model.AppConfig     `json:"config"`
	Profile   *model.EngineConfig `json:"profile,omitempty"` // Nil when the built-in geometry is in use
}

// ExportAllData exports the app config and, if given, the active engine
// profile to a single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, profile *model.EngineConfig) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Profile:   profile,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// A bundled profile is validated. The caller applies the imported data.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Profile != nil {
		if err := backup.Profile.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup profile: %w", err)
		}
	}
	if backup.Config.RecentLayouts == nil {
		backup.Config.RecentLayouts = []string{}
	}
	return backup, nil
}
