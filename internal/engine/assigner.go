package engine

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// Assigner places an ordered container list onto the slot grids of one floor.
type Assigner struct {
	registry        *Registry
	fallbackSpacing float64
	logger          *log.Logger
}

// NewAssigner creates an assigner. logger may be nil.
func NewAssigner(registry *Registry, fallbackSpacing float64, logger *log.Logger) *Assigner {
	return &Assigner{
		registry:        registry,
		fallbackSpacing: fallbackSpacing,
		logger:          logger,
	}
}

// slotKey identifies a slot across all type grids.
type slotKey struct {
	tag   model.TypeTag
	layer int
	row   int
	col   int
}

// placementState is the working set of one Assign call.
type placementState struct {
	taken      map[slotKey]bool
	footprints map[int][]model.Rect // Footprints already placed, by layer
	placements []model.PlacementResult
}

func newPlacementState(capacity int) *placementState {
	return &placementState{
		taken:      make(map[slotKey]bool),
		footprints: make(map[int][]model.Rect),
		placements: make([]model.PlacementResult, 0, capacity),
	}
}

// collides reports whether fp overlaps any footprint already placed on layer.
func (s *placementState) collides(layer int, fp model.Rect) bool {
	for _, other := range s.footprints[layer] {
		if fp.Overlaps(other) {
			return true
		}
	}
	return false
}

func (s *placementState) add(p model.PlacementResult) {
	s.footprints[p.Layer] = append(s.footprints[p.Layer], p.Footprint())
	s.placements = append(s.placements, p)
}

// slotCandidate is a free, collision-free slot and its world position.
type slotCandidate struct {
	slot     model.Slot
	position model.Point2D
	height   float64 // Box height of the grid's type, drives layer elevation
}

// Assign computes a position for every container in input order. Earlier
// containers get first choice of slots.
//
// Containers with an unregistered box type are skipped; the returned error
// joins one *UnknownBoxTypeError per skipped record while the placements of
// all other records are still returned.
func (a *Assigner) Assign(containers []model.ContainerRecord, grids map[model.TypeTag]model.SlotGrid, geom model.FloorGeometry) ([]model.PlacementResult, error) {
	state := newPlacementState(len(containers))
	var errs []error

	for i, c := range containers {
		spec, err := a.registry.Lookup(c.BoxType)
		if err != nil {
			errs = append(errs, &UnknownBoxTypeError{ContainerID: c.ID, Tag: c.BoxType})
			continue
		}

		ownCenter := geom.Center
		ownBounds := geom.Bounds
		if g, ok := grids[c.BoxType]; ok {
			ownCenter = g.Center
			ownBounds = g.Bounds
		}

		if c.ExplicitPosition != nil {
			state.add(explicitPlacement(c, spec, ownCenter, ownBounds, geom.Rotation))
			continue
		}

		if g, ok := grids[c.BoxType]; ok {
			if cand, found := a.findSlot(state, g, spec, geom); found {
				state.add(slotPlacement(c, spec, g.Type, cand, geom, model.SourceSlot))
				continue
			}
		}

		if g, cand, found := a.findCrossTypeSlot(state, c.BoxType, spec, grids, geom); found {
			state.add(slotPlacement(c, spec, g.Type, cand, geom, model.SourceCrossType))
			a.debug("cross-type slot", "container", c.ID, "type", c.BoxType, "grid", g.Type,
				"row", cand.slot.Row, "col", cand.slot.Col, "layer", cand.slot.Layer)
			continue
		}

		pos := FallbackPosition(i, len(containers), ownCenter, a.fallbackSpacing)
		pos = transformPoint(pos, ownCenter, geom.Rotation, spec, geom.Bounds)
		state.add(model.PlacementResult{
			ContainerID: c.ID,
			Position:    model.Point3D{X: pos.X, Y: geom.LayerElevation(0, spec.Height), Z: pos.Z},
			BoxType:     c.BoxType,
			Layer:       0,
			Size:        spec,
			Source:      model.SourceFallback,
		})
		a.debug("fallback position", "container", c.ID, "type", c.BoxType, "index", i)
	}

	return state.placements, errors.Join(errs...)
}

// ceilingTolerance is the slack allowed between a box top and the floor above.
const ceilingTolerance = 1e-9

// findSlot scans a grid in generation order and returns the first slot that is
// not taken and whose footprint, for a box of spec, does not overlap anything
// already placed on the same layer. Above layer 0 the box must also fit under
// the floor above; a foreign grid's upper layers can be too high for a taller
// box. The slot is marked taken when found.
func (a *Assigner) findSlot(state *placementState, grid model.SlotGrid, spec model.BoxSpec, geom model.FloorGeometry) (slotCandidate, bool) {
	gridSpec, err := a.registry.Lookup(grid.Type)
	if err != nil {
		return slotCandidate{}, false
	}
	ceiling := geom.BaseElevation + geom.VerticalGap + ceilingTolerance
	for _, slot := range grid.Slots {
		key := slotKey{tag: grid.Type, layer: slot.Layer, row: slot.Row, col: slot.Col}
		if state.taken[key] {
			continue
		}
		if slot.Layer > 0 && geom.LayerElevation(slot.Layer, gridSpec.Height)+spec.Height > ceiling {
			continue
		}
		local := model.Point2D{X: slot.LocalX, Z: slot.LocalZ}
		pos := transformPoint(local, grid.Center, geom.Rotation, spec, grid.Bounds)
		if state.collides(slot.Layer, model.Footprint(pos, spec)) {
			continue
		}
		state.taken[key] = true
		return slotCandidate{slot: slot, position: pos, height: gridSpec.Height}, true
	}
	return slotCandidate{}, false
}

// findCrossTypeSlot searches the other types' grids in registry priority order.
func (a *Assigner) findCrossTypeSlot(state *placementState, own model.TypeTag, spec model.BoxSpec, grids map[model.TypeTag]model.SlotGrid, geom model.FloorGeometry) (model.SlotGrid, slotCandidate, bool) {
	for _, tag := range a.registry.FallbackOrder(own) {
		g, ok := grids[tag]
		if !ok {
			continue
		}
		if cand, found := a.findSlot(state, g, spec, geom); found {
			return g, cand, true
		}
	}
	return model.SlotGrid{}, slotCandidate{}, false
}

func explicitPlacement(c model.ContainerRecord, spec model.BoxSpec, center model.Point2D, bounds model.Rect, angle float64) model.PlacementResult {
	layer := 0
	if c.ExplicitLayer != nil && *c.ExplicitLayer > 0 {
		layer = *c.ExplicitLayer
	}
	pos := transformPoint(c.ExplicitPosition.XZ(), center, angle, spec, bounds)
	return model.PlacementResult{
		ContainerID: c.ID,
		Position:    model.Point3D{X: pos.X, Y: c.ExplicitPosition.Y, Z: pos.Z},
		BoxType:     c.BoxType,
		Layer:       layer,
		Size:        spec,
		Source:      model.SourceExplicit,
	}
}

func slotPlacement(c model.ContainerRecord, spec model.BoxSpec, gridType model.TypeTag, cand slotCandidate, geom model.FloorGeometry, source model.PlacementSource) model.PlacementResult {
	return model.PlacementResult{
		ContainerID: c.ID,
		Position: model.Point3D{
			X: cand.position.X,
			Y: geom.LayerElevation(cand.slot.Layer, cand.height),
			Z: cand.position.Z,
		},
		BoxType:  c.BoxType,
		Layer:    cand.slot.Layer,
		Size:     spec,
		Source:   source,
		SlotType: gridType,
		Row:      cand.slot.Row,
		Col:      cand.slot.Col,
	}
}

func (a *Assigner) debug(msg string, keyvals ...interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, keyvals...)
	}
}
