package engine

import (
	"fmt"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// Overlap is a pair of placements on the same layer whose footprints intersect.
type Overlap struct {
	Layer int     `json:"layer"`
	First string  `json:"first"`
	Other string  `json:"other"`
	Area  float64 `json:"area"` // Intersection area in square meters
}

// BoundsViolation is a placement whose footprint leaves the floor bounds.
type BoundsViolation struct {
	ContainerID string     `json:"container_id"`
	Footprint   model.Rect `json:"footprint"`
}

// BoundsTolerance is the slack allowed when checking footprints against bounds.
const BoundsTolerance = 1e-6

// CheckOverlaps reports every pair of placements on the same layer whose
// footprints overlap. Pairs are reported once, in input order.
func CheckOverlaps(placements []model.PlacementResult) []Overlap {
	var overlaps []Overlap
	for i := 0; i < len(placements); i++ {
		a := placements[i]
		fa := a.Footprint()
		for j := i + 1; j < len(placements); j++ {
			b := placements[j]
			if a.Layer != b.Layer {
				continue
			}
			if inter, ok := fa.Intersect(b.Footprint()); ok {
				overlaps = append(overlaps, Overlap{
					Layer: a.Layer,
					First: a.ContainerID,
					Other: b.ContainerID,
					Area:  inter.Area(),
				})
			}
		}
	}
	return overlaps
}

// CheckBounds reports placements whose footprint is not inside bounds.
func CheckBounds(placements []model.PlacementResult, bounds model.Rect) []BoundsViolation {
	var out []BoundsViolation
	for _, p := range placements {
		fp := p.Footprint()
		if !bounds.Contains(fp, BoundsTolerance) {
			out = append(out, BoundsViolation{ContainerID: p.ContainerID, Footprint: fp})
		}
	}
	return out
}

// FormatWarnings produces human-readable messages for validation findings.
func FormatWarnings(overlaps []Overlap, violations []BoundsViolation) []string {
	var warnings []string
	for _, o := range overlaps {
		warnings = append(warnings, fmt.Sprintf(
			"Layer %d: container %s overlaps %s (%.4f m²)",
			o.Layer, o.First, o.Other, o.Area))
	}
	for _, v := range violations {
		warnings = append(warnings, fmt.Sprintf(
			"Container %s leaves the floor bounds: x [%.3f, %.3f] z [%.3f, %.3f]",
			v.ContainerID, v.Footprint.MinX, v.Footprint.MaxX, v.Footprint.MinZ, v.Footprint.MaxZ))
	}
	return warnings
}
