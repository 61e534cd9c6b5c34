package model

import (
	"math"
	"testing"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.OutputDir != "." {
		t.Errorf("expected output dir '.', got %s", cfg.OutputDir)
	}
	if cfg.LabelsPerPage != 30 {
		t.Errorf("expected 30 labels per page, got %d", cfg.LabelsPerPage)
	}
	if cfg.RecentLayouts == nil {
		t.Error("RecentLayouts should not be nil")
	}
}

func TestAddRecentMovesToFrontAndTrims(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.MaxRecent = 3

	cfg.AddRecent("a.json")
	cfg.AddRecent("b.json")
	cfg.AddRecent("c.json")
	cfg.AddRecent("a.json")
	cfg.AddRecent("d.json")

	want := []string{"d.json", "a.json", "c.json"}
	if len(cfg.RecentLayouts) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.RecentLayouts)
	}
	for i := range want {
		if cfg.RecentLayouts[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], cfg.RecentLayouts[i])
		}
	}
}

func TestEngineConfigValidate(t *testing.T) {
	if err := DefaultEngineConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"no types", func(c *EngineConfig) { c.BoxTypes = nil }},
		{"empty tag", func(c *EngineConfig) { c.BoxTypes[0].Tag = "" }},
		{"duplicate tag", func(c *EngineConfig) { c.BoxTypes[1].Tag = c.BoxTypes[0].Tag }},
		{"zero height", func(c *EngineConfig) { c.BoxTypes[2].Spec.Height = 0 }},
		{"negative spacing", func(c *EngineConfig) { c.Spacing = -0.1 }},
		{"negative fallback spacing", func(c *EngineConfig) { c.FallbackSpacing = -1 }},
		{"zero min extent", func(c *EngineConfig) { c.MinFloorExtent = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFloorElevation(t *testing.T) {
	cfg := DefaultEngineConfig()

	if e, ok := cfg.FloorElevation(1); !ok || e != 1.29 {
		t.Errorf("expected 1.29 for floor 1, got %f (%v)", e, ok)
	}
	if _, ok := cfg.FloorElevation(len(cfg.FloorElevations)); ok {
		t.Error("expected no elevation past the top floor")
	}
	if _, ok := cfg.FloorElevation(-1); ok {
		t.Error("expected no elevation for a negative index")
	}
}

func TestElevationOf(t *testing.T) {
	cfg := DefaultEngineConfig()

	tests := []struct {
		index int
		want  float64
	}{
		{-2, 0},
		{0, 0},
		{3, 3.87},
		{4, 5.16},
		{6, 7.74},
	}
	for _, tt := range tests {
		if got := cfg.ElevationOf(tt.index); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ElevationOf(%d) = %f, want %f", tt.index, got, tt.want)
		}
	}

	cfg.FloorElevations = nil
	if got := cfg.ElevationOf(2); math.Abs(got-2*cfg.DefaultFloorGap) > 1e-9 {
		t.Errorf("expected floors spaced by the default gap without a table, got %f", got)
	}
}
