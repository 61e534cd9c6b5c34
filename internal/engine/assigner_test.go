package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/piwi3910/SlotPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var largeBox = model.BoxSpec{Depth: 0.5, Lateral: 0.5, Height: 0.45}

// singleTypeSetup builds a 1.07 x 1.07 floor holding a 2x2x1 grid of large boxes.
func singleTypeSetup() (*Assigner, map[model.TypeTag]model.SlotGrid, model.FloorGeometry) {
	reg := NewRegistry([]model.BoxType{{Tag: model.BoxLarge, Spec: largeBox}})
	geom := flatGeometry(1.07, 1.07, 0.45)
	grid := GenerateGrid(model.BoxLarge, geom, geom.Center, 1.07, 1.07, largeBox, 0.01)
	return NewAssigner(reg, 0.5, nil), map[model.TypeTag]model.SlotGrid{model.BoxLarge: grid}, geom
}

func containersOf(tag model.TypeTag, n int) []model.ContainerRecord {
	out := make([]model.ContainerRecord, n)
	for i := range out {
		out[i] = model.ContainerRecord{ID: fmt.Sprintf("c%d", i+1), BoxType: tag}
	}
	return out
}

func TestAssign_SimplePack(t *testing.T) {
	a, grids, geom := singleTypeSetup()

	placements, err := a.Assign(containersOf(model.BoxLarge, 4), grids, geom)
	require.NoError(t, err)
	require.Len(t, placements, 4)

	expected := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for i, p := range placements {
		assert.Equal(t, fmt.Sprintf("c%d", i+1), p.ContainerID, "input order must be kept")
		assert.Equal(t, model.SourceSlot, p.Source)
		assert.Equal(t, 0, p.Layer)
		assert.Equal(t, expected[i], [2]int{p.Row, p.Col})
		assert.Equal(t, model.BoxLarge, p.SlotType)
		assert.Equal(t, 0.0, p.Position.Y)
	}
	assert.Empty(t, CheckOverlaps(placements))
	assert.Empty(t, CheckBounds(placements, geom.Bounds))
}

func TestAssign_OverflowUsesFallback(t *testing.T) {
	a, grids, geom := singleTypeSetup()

	placements, err := a.Assign(containersOf(model.BoxLarge, 6), grids, geom)
	require.NoError(t, err)
	require.Len(t, placements, 6)

	for _, p := range placements[:4] {
		assert.Equal(t, model.SourceSlot, p.Source)
	}
	for _, p := range placements[4:] {
		assert.Equal(t, model.SourceFallback, p.Source)
		assert.Equal(t, 0, p.Layer)
		assert.Empty(t, p.SlotType)
	}
	assert.Empty(t, CheckBounds(placements, geom.Bounds), "fallback positions must stay inside the floor")
}

func TestAssign_LayersStackWithTypeHeight(t *testing.T) {
	reg := NewRegistry([]model.BoxType{{Tag: model.BoxLarge, Spec: largeBox}})
	geom := flatGeometry(1.07, 1.07, 1.29)
	geom.BaseElevation = 2.0
	grid := GenerateGrid(model.BoxLarge, geom, geom.Center, 1.07, 1.07, largeBox, 0.01)
	a := NewAssigner(reg, 0.5, nil)

	placements, err := a.Assign(containersOf(model.BoxLarge, 5), map[model.TypeTag]model.SlotGrid{model.BoxLarge: grid}, geom)
	require.NoError(t, err)

	assert.Equal(t, 0, placements[3].Layer)
	assert.Equal(t, 1, placements[4].Layer)
	assert.InDelta(t, 2.0, placements[3].Position.Y, 1e-12)
	assert.InDelta(t, 2.45, placements[4].Position.Y, 1e-12)
	assert.Equal(t, model.SourceSlot, placements[4].Source)
}

func TestAssign_ExplicitPositionPrecedence(t *testing.T) {
	a, grids, geom := singleTypeSetup()
	geom.Rotation = 0.3
	grid := grids[model.BoxLarge]

	containers := containersOf(model.BoxLarge, 3)
	explicit := model.Point3D{X: 0.9, Y: 0.25, Z: -0.1}
	containers[2].ExplicitPosition = &explicit
	containers[2].ExplicitLayer = model.Int(1)

	placements, err := a.Assign(containers, grids, geom)
	require.NoError(t, err)
	require.Len(t, placements, 3)

	want := ClampToBounds(RotateAround(grid.Center, explicit.XZ(), geom.Rotation), largeBox.Depth, largeBox.Lateral, grid.Bounds)
	got := placements[2]
	assert.Equal(t, model.SourceExplicit, got.Source)
	assert.Equal(t, want.X, got.Position.X)
	assert.Equal(t, want.Z, got.Position.Z)
	assert.Equal(t, explicit.Y, got.Position.Y)
	assert.Equal(t, 1, got.Layer)
}

func TestAssign_ExplicitPositionSkipsCollisionCheck(t *testing.T) {
	a, grids, geom := singleTypeSetup()

	// Both containers claim the same spot; author intent wins for both.
	spot := model.Point3D{X: 0, Z: 0}
	containers := containersOf(model.BoxLarge, 2)
	containers[0].ExplicitPosition = &spot
	containers[1].ExplicitPosition = &spot

	placements, err := a.Assign(containers, grids, geom)
	require.NoError(t, err)
	assert.Equal(t, placements[0].Position, placements[1].Position)
	assert.Len(t, CheckOverlaps(placements), 1)
}

func TestAssign_SlotSearchAvoidsExplicitFootprints(t *testing.T) {
	a, grids, geom := singleTypeSetup()
	grid := grids[model.BoxLarge]

	// Occupy the first slot's spot explicitly; the slot search must skip it.
	first := model.Point3D{X: grid.Slots[0].LocalX, Z: grid.Slots[0].LocalZ}
	containers := containersOf(model.BoxLarge, 2)
	containers[0].ExplicitPosition = &first

	placements, err := a.Assign(containers, grids, geom)
	require.NoError(t, err)

	assert.Equal(t, model.SourceSlot, placements[1].Source)
	assert.Equal(t, [2]int{0, 1}, [2]int{placements[1].Row, placements[1].Col})
	assert.Empty(t, CheckOverlaps(placements))
}

func TestAssign_UnknownTypeDoesNotHaltPlacement(t *testing.T) {
	a, grids, geom := singleTypeSetup()

	containers := []model.ContainerRecord{
		{ID: "a", BoxType: model.BoxLarge},
		{ID: "bad", BoxType: "crate"},
		{ID: "c", BoxType: model.BoxLarge},
	}

	placements, err := a.Assign(containers, grids, geom)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBoxType))

	var ue *UnknownBoxTypeError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "bad", ue.ContainerID)
	assert.Equal(t, model.TypeTag("crate"), ue.Tag)

	require.Len(t, placements, 2)
	assert.Equal(t, "a", placements[0].ContainerID)
	assert.Equal(t, "c", placements[1].ContainerID)
	assert.Equal(t, [2]int{0, 1}, [2]int{placements[1].Row, placements[1].Col})
}

func TestAssign_CrossTypeFallback(t *testing.T) {
	small := model.BoxSpec{Depth: 0.25, Lateral: 0.25, Height: 0.45}
	reg := NewRegistry([]model.BoxType{
		{Tag: model.BoxLarge, Spec: largeBox},
		{Tag: model.BoxSmall, Spec: small},
	})
	geom := flatGeometry(1.07, 1.07, 0.45)
	// Large boxes only fit one column on the left half of the floor.
	left := model.Point2D{X: -0.26}
	grids := map[model.TypeTag]model.SlotGrid{
		model.BoxLarge: GenerateGrid(model.BoxLarge, geom, left, 1.07, 0.55, largeBox, 0.01),
		model.BoxSmall: GenerateGrid(model.BoxSmall, geom, geom.Center, 1.07, 1.07, small, 0.01),
	}
	require.Equal(t, 2, grids[model.BoxLarge].Capacity())
	a := NewAssigner(reg, 0.5, nil)

	placements, err := a.Assign(containersOf(model.BoxLarge, 3), grids, geom)
	require.NoError(t, err)
	require.Len(t, placements, 3)

	assert.Equal(t, model.SourceSlot, placements[0].Source)
	assert.Equal(t, model.SourceSlot, placements[1].Source)
	third := placements[2]
	assert.Equal(t, model.SourceCrossType, third.Source)
	assert.Equal(t, model.BoxSmall, third.SlotType)
	assert.Equal(t, model.BoxLarge, third.BoxType)
	assert.Equal(t, largeBox, third.Size)
	assert.Empty(t, CheckOverlaps(placements))
	assert.Empty(t, CheckBounds(placements, geom.Bounds))
}

func TestAssign_MissingGridGoesStraightToFallback(t *testing.T) {
	reg := NewRegistry([]model.BoxType{{Tag: model.BoxLarge, Spec: largeBox}})
	geom := flatGeometry(1.07, 1.07, 0.45)
	a := NewAssigner(reg, 0.5, nil)

	placements, err := a.Assign(containersOf(model.BoxLarge, 1), nil, geom)
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, model.SourceFallback, placements[0].Source)
}

func TestAssign_Deterministic(t *testing.T) {
	a, grids, geom := singleTypeSetup()
	containers := containersOf(model.BoxLarge, 7)

	first, err := a.Assign(containers, grids, geom)
	require.NoError(t, err)
	second, err := a.Assign(containers, grids, geom)
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestAssign_RotatedFloorStaysInBounds(t *testing.T) {
	a, grids, geom := singleTypeSetup()
	geom.Rotation = math.Pi / 6

	placements, err := a.Assign(containersOf(model.BoxLarge, 4), grids, geom)
	require.NoError(t, err)

	assert.Empty(t, CheckBounds(placements, geom.Bounds))
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			if placements[i].Source == model.SourceFallback || placements[j].Source == model.SourceFallback {
				continue
			}
			assert.False(t, placements[i].Footprint().Overlaps(placements[j].Footprint()))
		}
	}
}

func TestAssign_MixedTypesOnlyFallbackMayOverlap(t *testing.T) {
	planner, err := New(model.DefaultEngineConfig())
	require.NoError(t, err)
	tags := planner.Registry().Tags()

	for seed := int64(1); seed <= 5; seed++ {
		rng := rand.New(rand.NewSource(seed))
		layout := model.NewLayout()
		for i := 0; i < 40; i++ {
			layout.Containers = append(layout.Containers, model.ContainerRecord{
				ID:      fmt.Sprintf("s%d-%d", seed, i),
				BoxType: tags[rng.Intn(len(tags))],
			})
		}

		result, err := planner.Plan(layout)
		require.NoError(t, err)
		require.Len(t, result.Placements, 40)

		byID := make(map[string]model.PlacementResult)
		for _, p := range result.Placements {
			byID[p.ContainerID] = p
		}
		for _, o := range CheckOverlaps(result.Placements) {
			a, b := byID[o.First], byID[o.Other]
			assert.True(t, a.Source == model.SourceFallback || b.Source == model.SourceFallback,
				"seed %d: slot placements %s and %s overlap", seed, o.First, o.Other)
		}
		assert.Empty(t, CheckBounds(result.Placements, result.Geometry.Bounds), "seed %d", seed)
	}
}

func TestAssign_CrossTypeSlotsStayUnderCeiling(t *testing.T) {
	short := model.BoxSpec{Depth: 0.5, Lateral: 0.5, Height: 0.2}
	tall := model.BoxSpec{Depth: 0.5, Lateral: 0.5, Height: 0.4}
	reg := NewRegistry([]model.BoxType{
		{Tag: model.BoxSmall, Spec: short},
		{Tag: model.BoxLarge, Spec: tall},
	})
	geom := flatGeometry(1.07, 1.07, 0.6)
	grids := map[model.TypeTag]model.SlotGrid{
		model.BoxSmall: GenerateGrid(model.BoxSmall, geom, geom.Center, 1.07, 1.07, short, 0.01),
	}
	require.Equal(t, 3, grids[model.BoxSmall].Layers)
	a := NewAssigner(reg, 0.5, nil)

	perLayer := grids[model.BoxSmall].Rows * grids[model.BoxSmall].Cols
	require.Greater(t, perLayer, 0)
	fits := 2 * perLayer

	placements, err := a.Assign(containersOf(model.BoxLarge, fits+2), grids, geom)
	require.NoError(t, err)
	require.Len(t, placements, fits+2)

	for _, p := range placements[:fits] {
		assert.Equal(t, model.SourceCrossType, p.Source)
		assert.LessOrEqual(t, p.Layer, 1, "layer 2 of the short grid leaves no room for a tall box")
		assert.LessOrEqual(t, p.Position.Y+p.Size.Height, geom.BaseElevation+geom.VerticalGap+1e-9)
	}
	for _, p := range placements[fits:] {
		assert.Equal(t, model.SourceFallback, p.Source)
	}
}
