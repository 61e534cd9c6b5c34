package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SlotPlan/internal/model"
)

func placementAt(id string, x, z float64, layer int) model.PlacementResult {
	return model.PlacementResult{
		ContainerID: id,
		Position:    model.Point3D{X: x, Z: z},
		Layer:       layer,
		Size:        model.BoxSpec{Depth: 1, Lateral: 1, Height: 1},
	}
}

func TestCheckOverlaps_NoOverlap(t *testing.T) {
	placements := []model.PlacementResult{
		placementAt("a", 0, 0, 0),
		placementAt("b", 1, 0, 0), // touching edge only
		placementAt("c", 0, 0, 1), // same spot, other layer
	}

	assert.Empty(t, CheckOverlaps(placements))
}

func TestCheckOverlaps_ReportsArea(t *testing.T) {
	placements := []model.PlacementResult{
		placementAt("a", 0, 0, 0),
		placementAt("b", 0.5, 0.5, 0),
	}

	overlaps := CheckOverlaps(placements)

	require.Len(t, overlaps, 1)
	assert.Equal(t, "a", overlaps[0].First)
	assert.Equal(t, "b", overlaps[0].Other)
	assert.Equal(t, 0, overlaps[0].Layer)
	assert.InDelta(t, 0.25, overlaps[0].Area, 1e-12)
}

func TestCheckBounds(t *testing.T) {
	bounds := model.Rect{MinX: -1, MaxX: 1, MinZ: -1, MaxZ: 1}
	placements := []model.PlacementResult{
		placementAt("inside", 0, 0, 0),
		placementAt("edge", 0.5, -0.5, 0),
		placementAt("outside", 0.9, 0, 0),
	}

	violations := CheckBounds(placements, bounds)

	require.Len(t, violations, 1)
	assert.Equal(t, "outside", violations[0].ContainerID)
	assert.InDelta(t, 1.4, violations[0].Footprint.MaxX, 1e-12)
}

func TestFormatWarnings(t *testing.T) {
	warnings := FormatWarnings(
		[]Overlap{{Layer: 1, First: "a", Other: "b", Area: 0.125}},
		[]BoundsViolation{{ContainerID: "c", Footprint: model.Rect{MinX: 0, MaxX: 1.5, MinZ: 0, MaxZ: 1}}},
	)

	require.Len(t, warnings, 2)
	assert.Equal(t, "Layer 1: container a overlaps b (0.1250 m²)", warnings[0])
	assert.Contains(t, warnings[1], "Container c leaves the floor bounds")
	assert.Contains(t, warnings[1], "x [0.000, 1.500]")
}

func TestFormatWarnings_Empty(t *testing.T) {
	assert.Empty(t, FormatWarnings(nil, nil))
}
