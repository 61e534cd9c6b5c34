package engine

import (
	"math"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// ResolveFloor derives the local frame of a floor. Explicit bounds win;
// otherwise the footprint comes from the descriptor's width/length or the
// configured defaults. The result never has zero area.
func ResolveFloor(desc model.FloorDescriptor, cfg model.EngineConfig) model.FloorGeometry {
	minExtent := cfg.MinFloorExtent
	if minExtent <= 0 {
		minExtent = model.DefaultEngineConfig().MinFloorExtent
	}

	var bounds model.Rect
	if desc.Bounds != nil {
		bounds = desc.Bounds.Normalize(minExtent)
	} else {
		width := cfg.DefaultFloorWidth
		if desc.Width != nil {
			width = *desc.Width
		}
		length := cfg.DefaultFloorLength
		if desc.Length != nil {
			length = *desc.Length
		}
		center := cfg.DefaultCenter
		if desc.Center != nil {
			center = *desc.Center
		}
		bounds = model.RectAround(center, math.Max(width, minExtent), math.Max(length, minExtent))
	}

	index := max(desc.Index, 0)
	base := cfg.ElevationOf(index)
	if desc.BaseElevation != nil {
		base = *desc.BaseElevation
	}

	next := base + cfg.DefaultFloorGap
	if desc.NextElevation != nil {
		next = *desc.NextElevation
	} else if e, ok := cfg.FloorElevation(index + 1); ok {
		next = e
	}

	return model.FloorGeometry{
		Index:         desc.Index,
		Center:        bounds.Center(),
		Bounds:        bounds,
		Rotation:      desc.Rotation,
		BaseElevation: base,
		VerticalGap:   next - base,
	}
}
