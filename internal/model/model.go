package model

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// TypeTag identifies a container box type.
type TypeTag string

const (
	BoxSmall  TypeTag = "S"
	BoxMedium TypeTag = "M"
	BoxLarge  TypeTag = "L"
	BoxXLarge TypeTag = "XL"
)

// BoxSpec is the fixed footprint of a box type in meters.
// Depth runs along Z (rows), Lateral along X (columns).
type BoxSpec struct {
	Depth   float64 `json:"depth" toml:"depth"`
	Lateral float64 `json:"lateral" toml:"lateral"`
	Height  float64 `json:"height" toml:"height"`
}

// HalfExtents returns the half sizes of the footprint along X and Z.
func (b BoxSpec) HalfExtents() (hx, hz float64) {
	return b.Lateral / 2, b.Depth / 2
}

// BoxType is one entry of the box table. Offset is the per-type bias of the
// type's grid center relative to the floor center, in the floor's local frame.
type BoxType struct {
	Tag    TypeTag `json:"tag" toml:"tag"`
	Spec   BoxSpec `json:"spec" toml:"spec"`
	Offset Point2D `json:"offset" toml:"offset"`
}

// Point2D is a position on the floor plane (X lateral, Z depth).
type Point2D struct {
	X float64 `json:"x" toml:"x"`
	Z float64 `json:"z" toml:"z"`
}

// Add returns p shifted by o.
func (p Point2D) Add(o Point2D) Point2D {
	return Point2D{X: p.X + o.X, Z: p.Z + o.Z}
}

// Point3D is a world position; Y is the elevation.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// XZ drops the elevation.
func (p Point3D) XZ() Point2D {
	return Point2D{X: p.X, Z: p.Z}
}

// Rect is an axis-aligned rectangle on the floor plane.
type Rect struct {
	MinX float64 `json:"min_x" toml:"min_x"`
	MaxX float64 `json:"max_x" toml:"max_x"`
	MinZ float64 `json:"min_z" toml:"min_z"`
	MaxZ float64 `json:"max_z" toml:"max_z"`
}

// RectAround builds a rectangle of the given width (X) and length (Z) centered on c.
func RectAround(c Point2D, width, length float64) Rect {
	return Rect{
		MinX: c.X - width/2,
		MaxX: c.X + width/2,
		MinZ: c.Z - length/2,
		MaxZ: c.Z + length/2,
	}
}

// Width returns the X extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Length returns the Z extent.
func (r Rect) Length() float64 { return r.MaxZ - r.MinZ }

// Area returns Width * Length.
func (r Rect) Area() float64 { return r.Width() * r.Length() }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: (r.MinX + r.MaxX) / 2, Z: (r.MinZ + r.MaxZ) / 2}
}

// Overlaps reports whether two rectangles intersect with positive area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX &&
		r.MinZ < o.MaxZ && r.MaxZ > o.MinZ
}

// Contains reports whether o lies within r, allowing tol of slack on every edge.
func (r Rect) Contains(o Rect, tol float64) bool {
	return o.MinX >= r.MinX-tol && o.MaxX <= r.MaxX+tol &&
		o.MinZ >= r.MinZ-tol && o.MaxZ <= r.MaxZ+tol
}

// Intersect returns the overlapping region of r and o and whether it has positive area.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	out := Rect{
		MinX: math.Max(r.MinX, o.MinX),
		MaxX: math.Min(r.MaxX, o.MaxX),
		MinZ: math.Max(r.MinZ, o.MinZ),
		MaxZ: math.Min(r.MaxZ, o.MaxZ),
	}
	if out.MinX >= out.MaxX || out.MinZ >= out.MaxZ {
		return Rect{}, false
	}
	return out, true
}

// Normalize orders the min/max pairs and grows each axis to at least minExtent
// around its midpoint, so the result never has zero area.
func (r Rect) Normalize(minExtent float64) Rect {
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinZ > r.MaxZ {
		r.MinZ, r.MaxZ = r.MaxZ, r.MinZ
	}
	if r.Width() < minExtent {
		mid := (r.MinX + r.MaxX) / 2
		r.MinX, r.MaxX = mid-minExtent/2, mid+minExtent/2
	}
	if r.Length() < minExtent {
		mid := (r.MinZ + r.MaxZ) / 2
		r.MinZ, r.MaxZ = mid-minExtent/2, mid+minExtent/2
	}
	return r
}

// Footprint returns the axis-aligned footprint of a box of the given spec centered on c.
func Footprint(c Point2D, spec BoxSpec) Rect {
	return RectAround(c, spec.Lateral, spec.Depth)
}

// FloorDescriptor is the floor metadata supplied by the scene layer.
// Nil pointer fields are resolved from the engine configuration.
type FloorDescriptor struct {
	Index         int      `json:"index"`
	Bounds        *Rect    `json:"bounds,omitempty"`         // Explicit footprint (min/max X and Z)
	Center        *Point2D `json:"center,omitempty"`         // Used only when Bounds is nil
	Width         *float64 `json:"width,omitempty"`          // X extent when Bounds is nil
	Length        *float64 `json:"length,omitempty"`         // Z extent when Bounds is nil
	Rotation      float64  `json:"rotation,omitempty"`       // Radians around the floor center
	BaseElevation *float64 `json:"base_elevation,omitempty"` // Overrides the configured floor elevation
	NextElevation *float64 `json:"next_elevation,omitempty"` // Base elevation of the floor above
}

// FloorGeometry is the resolved local frame of one floor for a placement pass.
type FloorGeometry struct {
	Index         int     `json:"index"`
	Center        Point2D `json:"center"`
	Bounds        Rect    `json:"bounds"`
	Rotation      float64 `json:"rotation"`
	BaseElevation float64 `json:"base_elevation"`
	VerticalGap   float64 `json:"vertical_gap"` // Distance to the next floor's base elevation
}

// layerEpsilon absorbs division error when the gap is an exact multiple of the box height.
const layerEpsilon = 1e-9

// LayerCount returns how many layers of boxes with the given height fit
// between this floor and the next one. Always at least 1.
func (g FloorGeometry) LayerCount(boxHeight float64) int {
	if boxHeight <= 0 || g.VerticalGap <= 0 {
		return 1
	}
	n := int(math.Floor(g.VerticalGap/boxHeight + layerEpsilon))
	if n < 1 {
		return 1
	}
	return n
}

// LayerElevation returns the base elevation of a layer for boxes of the given height.
func (g FloorGeometry) LayerElevation(layer int, boxHeight float64) float64 {
	return g.BaseElevation + float64(layer)*boxHeight
}

// BaseElevationByLayer maps every layer index that fits to its base elevation.
func (g FloorGeometry) BaseElevationByLayer(boxHeight float64) map[int]float64 {
	n := g.LayerCount(boxHeight)
	out := make(map[int]float64, n)
	for k := 0; k < n; k++ {
		out[k] = g.LayerElevation(k, boxHeight)
	}
	return out
}

// Slot is one candidate position in a type's tiling of a floor.
// LocalX/LocalZ are in the floor's local frame, before rotation.
type Slot struct {
	LocalX float64 `json:"local_x"`
	LocalZ float64 `json:"local_z"`
	Layer  int     `json:"layer"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
}

// SlotGrid is the tiling of one floor for one box type.
type SlotGrid struct {
	Type   TypeTag `json:"type"`
	Center Point2D `json:"center"`
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Layers int     `json:"layers"`
	Slots  []Slot  `json:"slots"`
	Bounds Rect    `json:"bounds"`
}

// Capacity returns the number of slots in the grid.
func (g SlotGrid) Capacity() int {
	return len(g.Slots)
}

// ContainerRecord is a container supplied by the page/API layer.
// ExplicitPosition is set when the container has a persisted placement.
type ContainerRecord struct {
	ID               string   `json:"id"`
	Label            string   `json:"label,omitempty"`
	BoxType          TypeTag  `json:"box_type"`
	ExplicitPosition *Point3D `json:"explicit_position,omitempty"`
	ExplicitLayer    *int     `json:"explicit_layer,omitempty"`
}

var containerIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("slotplan:container"))

// NewContainer returns a record whose short ID is derived from key, so the
// same key always yields the same ID.
func NewContainer(key, label string, tag TypeTag) ContainerRecord {
	return ContainerRecord{
		ID:      uuid.NewSHA1(containerIDSpace, []byte(key)).String()[:8],
		Label:   label,
		BoxType: tag,
	}
}

// HasExplicitPosition reports whether the record carries a persisted placement.
func (c ContainerRecord) HasExplicitPosition() bool {
	return c.ExplicitPosition != nil
}

// PlacementSource records how a placement was decided.
type PlacementSource string

const (
	SourceExplicit  PlacementSource = "explicit"   // Persisted position, transformed and clamped
	SourceSlot      PlacementSource = "slot"       // Slot of the container's own type
	SourceCrossType PlacementSource = "cross_type" // Slot borrowed from another type's grid
	SourceFallback  PlacementSource = "fallback"   // Synthetic square-grid position
)

// PlacementResult is the computed placement of one container.
type PlacementResult struct {
	ContainerID string          `json:"container_id"`
	Position    Point3D         `json:"world_position"`
	BoxType     TypeTag         `json:"box_type"`
	Layer       int             `json:"layer"`
	Size        BoxSpec         `json:"size"`
	Source      PlacementSource `json:"source"`
	SlotType    TypeTag         `json:"slot_type,omitempty"` // Grid the slot came from
	Row         int             `json:"row"`
	Col         int             `json:"col"`
}

// Footprint returns the axis-aligned footprint of the placed box.
func (p PlacementResult) Footprint() Rect {
	return Footprint(p.Position.XZ(), p.Size)
}

// Layout ties a floor and its ordered container list together for save/load.
type Layout struct {
	Name       string            `json:"name"`
	Floor      FloorDescriptor   `json:"floor"`
	Containers []ContainerRecord `json:"containers"`
}

func NewLayout() Layout {
	return Layout{
		Name:       "Untitled",
		Containers: []ContainerRecord{},
	}
}

// PlanResult holds the full output of one placement pass.
type PlanResult struct {
	Geometry   FloorGeometry     `json:"geometry"`
	Grids      []SlotGrid        `json:"grids"`
	Placements []PlacementResult `json:"placements"`
	Rejected   []ContainerRecord `json:"rejected,omitempty"`
}

// CountBySource tallies placements per decision path.
func (r PlanResult) CountBySource() map[PlacementSource]int {
	counts := make(map[PlacementSource]int)
	for _, p := range r.Placements {
		counts[p.Source]++
	}
	return counts
}

// Layers returns the sorted distinct layer indices that hold placements.
func (r PlanResult) Layers() []int {
	seen := make(map[int]bool)
	var layers []int
	for _, p := range r.Placements {
		if !seen[p.Layer] {
			seen[p.Layer] = true
			layers = append(layers, p.Layer)
		}
	}
	sort.Ints(layers)
	return layers
}

// LayerUtilization returns the occupied footprint area per layer as a
// percentage of the floor area.
func (r PlanResult) LayerUtilization() map[int]float64 {
	floorArea := r.Geometry.Bounds.Area()
	out := make(map[int]float64)
	if floorArea <= 0 {
		return out
	}
	for _, p := range r.Placements {
		out[p.Layer] += p.Size.Lateral * p.Size.Depth
	}
	for layer, used := range out {
		out[layer] = used / floorArea * 100.0
	}
	return out
}

// TotalCapacity returns the number of slots across all grids.
func (r PlanResult) TotalCapacity() int {
	total := 0
	for _, g := range r.Grids {
		total += g.Capacity()
	}
	return total
}

// Float64 returns a pointer to v, for optional descriptor fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional record fields.
func Int(v int) *int { return &v }
