package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SlotPlan/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.OutputDir = "/srv/plans"
	profile := model.DefaultEngineConfig()
	profile.Spacing = 0.02

	if err := ExportAllData(path, cfg, &profile); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.OutputDir != "/srv/plans" {
		t.Errorf("expected OutputDir=/srv/plans, got %s", backup.Config.OutputDir)
	}
	if backup.Profile == nil || backup.Profile.Spacing != 0.02 {
		t.Errorf("expected profile with spacing 0.02, got %+v", backup.Profile)
	}
}

func TestExportAllDataWithoutProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), nil); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Profile != nil {
		t.Error("expected no profile in backup")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config":{"output_dir":"."}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataInvalidProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badprofile.json")
	data := []byte(`{"version":"1.0.0","config":{},"profile":{"box_types":[],"min_floor_extent":0.01}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for a profile without box types")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), nil); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataNilRecentLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_layouts":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentLayouts == nil {
		t.Error("RecentLayouts should not be nil after import")
	}
}
