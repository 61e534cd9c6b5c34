package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SlotPlan/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEngineProfileTOML(t *testing.T) {
	path := writeFile(t, "garage.toml", `
spacing = 0.02
floor_elevations = [0.0, 1.0]

[[box_types]]
tag = "crate"
spec = { depth = 0.4, lateral = 0.6, height = 0.3 }
offset = { x = 0.01, z = 0.0 }

[[box_types]]
tag = "tote"
spec = { depth = 0.3, lateral = 0.4, height = 0.25 }
`)

	cfg, err := LoadEngineProfile(path)
	if err != nil {
		t.Fatalf("LoadEngineProfile failed: %v", err)
	}

	if cfg.Spacing != 0.02 {
		t.Errorf("expected spacing 0.02, got %f", cfg.Spacing)
	}
	if len(cfg.BoxTypes) != 2 || cfg.BoxTypes[0].Tag != "crate" || cfg.BoxTypes[1].Tag != "tote" {
		t.Fatalf("expected box table to be replaced in order, got %+v", cfg.BoxTypes)
	}
	if cfg.BoxTypes[0].Offset.X != 0.01 {
		t.Errorf("expected crate offset 0.01, got %f", cfg.BoxTypes[0].Offset.X)
	}
	if cfg.BoxTypes[1].Offset != (model.Point2D{}) {
		t.Errorf("expected tote without offset, got %+v", cfg.BoxTypes[1].Offset)
	}
	if len(cfg.FloorElevations) != 2 {
		t.Errorf("expected 2 floor elevations, got %v", cfg.FloorElevations)
	}

	defaults := model.DefaultEngineConfig()
	if cfg.DefaultFloorWidth != defaults.DefaultFloorWidth || cfg.FallbackSpacing != defaults.FallbackSpacing {
		t.Error("expected fields missing from the profile to keep their defaults")
	}
}

func TestLoadEngineProfileEmptyKeepsDefaults(t *testing.T) {
	path := writeFile(t, "empty.toml", "# nothing here\n")

	cfg, err := LoadEngineProfile(path)
	if err != nil {
		t.Fatalf("LoadEngineProfile failed: %v", err)
	}

	defaults := model.DefaultEngineConfig()
	if len(cfg.BoxTypes) != len(defaults.BoxTypes) || len(cfg.FloorElevations) != len(defaults.FloorElevations) {
		t.Errorf("expected default tables, got %d types and %d elevations", len(cfg.BoxTypes), len(cfg.FloorElevations))
	}
}

func TestLoadEngineProfileUnknownKey(t *testing.T) {
	path := writeFile(t, "typo.toml", "spacin = 0.02\n")

	_, err := LoadEngineProfile(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "spacin") {
		t.Errorf("expected error to name the key, got %v", err)
	}
}

func TestLoadEngineProfileInvalidValues(t *testing.T) {
	path := writeFile(t, "bad.toml", "spacing = -1.0\n")

	if _, err := LoadEngineProfile(path); err == nil {
		t.Fatal("expected validation error for negative spacing")
	}
}

func TestLoadEngineProfileJSON(t *testing.T) {
	path := writeFile(t, "profile.json", `{"fallback_spacing": 0.75}`)

	cfg, err := LoadEngineProfile(path)
	if err != nil {
		t.Fatalf("LoadEngineProfile failed: %v", err)
	}
	if cfg.FallbackSpacing != 0.75 {
		t.Errorf("expected fallback spacing 0.75, got %f", cfg.FallbackSpacing)
	}
	if len(cfg.BoxTypes) != 4 {
		t.Errorf("expected default box table, got %d types", len(cfg.BoxTypes))
	}
}

func TestLoadEngineProfileMissingFile(t *testing.T) {
	if _, err := LoadEngineProfile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveAndLoadEngineProfileRoundTrip(t *testing.T) {
	for _, name := range []string{"profile.toml", "profile.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := model.DefaultEngineConfig()
			cfg.Spacing = 0.015
			cfg.BoxTypes = cfg.BoxTypes[:2]

			if err := SaveEngineProfile(path, cfg); err != nil {
				t.Fatalf("SaveEngineProfile failed: %v", err)
			}
			loaded, err := LoadEngineProfile(path)
			if err != nil {
				t.Fatalf("LoadEngineProfile failed: %v", err)
			}
			if loaded.Spacing != 0.015 {
				t.Errorf("expected spacing 0.015, got %f", loaded.Spacing)
			}
			if len(loaded.BoxTypes) != 2 || loaded.BoxTypes[1] != cfg.BoxTypes[1] {
				t.Errorf("box table not preserved: %+v", loaded.BoxTypes)
			}
		})
	}
}

func TestLoadProfileOrDefault(t *testing.T) {
	cfg, err := LoadProfileOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.BoxTypes) != 4 {
		t.Errorf("expected built-in config, got %d types", len(cfg.BoxTypes))
	}
}
