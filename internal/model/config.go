package model

import (
	"errors"
	"fmt"
)

// EngineConfig is the immutable configuration injected into the placement engine.
type EngineConfig struct {
	BoxTypes        []BoxType `json:"box_types" toml:"box_types"`               // Ordered; order is the cross-type search priority
	FloorElevations []float64 `json:"floor_elevations" toml:"floor_elevations"` // Base elevation per floor index
	Spacing         float64   `json:"spacing" toml:"spacing"`                   // Gap between neighbouring slots
	FallbackSpacing float64   `json:"fallback_spacing" toml:"fallback_spacing"` // Pitch of the last-resort grid

	// Footprint used when a floor descriptor has no bounds
	DefaultFloorWidth  float64 `json:"default_floor_width" toml:"default_floor_width"`
	DefaultFloorLength float64 `json:"default_floor_length" toml:"default_floor_length"`
	DefaultCenter      Point2D `json:"default_center" toml:"default_center"`
	MinFloorExtent     float64 `json:"min_floor_extent" toml:"min_floor_extent"`

	// Vertical gap assumed above the topmost configured floor
	DefaultFloorGap float64 `json:"default_floor_gap" toml:"default_floor_gap"`
}

// DefaultEngineConfig returns the built-in shelf geometry: four box sizes on a
// 1.07m x 2.40m shelf floor with 1.29m between floors.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BoxTypes: []BoxType{
			{Tag: BoxSmall, Spec: BoxSpec{Depth: 0.30, Lateral: 0.25, Height: 0.20}, Offset: Point2D{X: -0.005, Z: -0.005}},
			{Tag: BoxMedium, Spec: BoxSpec{Depth: 0.40, Lateral: 0.35, Height: 0.30}, Offset: Point2D{X: 0.005, Z: -0.005}},
			{Tag: BoxLarge, Spec: BoxSpec{Depth: 0.50, Lateral: 0.50, Height: 0.45}, Offset: Point2D{X: -0.005, Z: 0.005}},
			{Tag: BoxXLarge, Spec: BoxSpec{Depth: 0.60, Lateral: 0.50, Height: 0.60}, Offset: Point2D{X: 0.005, Z: 0.005}},
		},
		FloorElevations:    []float64{0, 1.29, 2.58, 3.87},
		Spacing:            0.01,
		FallbackSpacing:    0.5,
		DefaultFloorWidth:  1.07,
		DefaultFloorLength: 2.40,
		DefaultCenter:      Point2D{X: 0, Z: 0},
		MinFloorExtent:     0.01,
		DefaultFloorGap:    1.29,
	}
}

// FloorElevation returns the configured base elevation of a floor index and
// whether the index is configured.
func (c EngineConfig) FloorElevation(index int) (float64, bool) {
	if index < 0 || index >= len(c.FloorElevations) {
		return 0, false
	}
	return c.FloorElevations[index], true
}

// ElevationOf returns the base elevation of any floor index. Floors past the
// configured table continue upward from its last entry at DefaultFloorGap;
// negative indices resolve to floor 0.
func (c EngineConfig) ElevationOf(index int) float64 {
	if index < 0 {
		index = 0
	}
	if e, ok := c.FloorElevation(index); ok {
		return e
	}
	n := len(c.FloorElevations)
	if n == 0 {
		return float64(index) * c.DefaultFloorGap
	}
	return c.FloorElevations[n-1] + float64(index-(n-1))*c.DefaultFloorGap
}

// Validate checks the configuration for values the engine cannot work with.
func (c EngineConfig) Validate() error {
	if len(c.BoxTypes) == 0 {
		return errors.New("no box types configured")
	}
	seen := make(map[TypeTag]bool)
	for _, bt := range c.BoxTypes {
		if bt.Tag == "" {
			return errors.New("box type with empty tag")
		}
		if seen[bt.Tag] {
			return fmt.Errorf("duplicate box type %q", bt.Tag)
		}
		seen[bt.Tag] = true
		if bt.Spec.Depth <= 0 || bt.Spec.Lateral <= 0 || bt.Spec.Height <= 0 {
			return fmt.Errorf("box type %q: dimensions must be positive", bt.Tag)
		}
	}
	if c.Spacing < 0 {
		return fmt.Errorf("spacing must not be negative, got %g", c.Spacing)
	}
	if c.FallbackSpacing < 0 {
		return fmt.Errorf("fallback spacing must not be negative, got %g", c.FallbackSpacing)
	}
	if c.MinFloorExtent <= 0 {
		return fmt.Errorf("minimum floor extent must be positive, got %g", c.MinFloorExtent)
	}
	return nil
}
