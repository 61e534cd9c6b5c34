package engine

import (
	"math"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// RotateAround rotates p by angle radians around center.
func RotateAround(center, p model.Point2D, angle float64) model.Point2D {
	if angle == 0 {
		return p
	}
	sin, cos := math.Sincos(angle)
	dx := p.X - center.X
	dz := p.Z - center.Z
	return model.Point2D{
		X: dx*cos - dz*sin + center.X,
		Z: dx*sin + dz*cos + center.Z,
	}
}

// ClampToBounds moves p so that a box of the given depth (Z) and lateral (X)
// size centered on p stays inside bounds. When the box is larger than bounds
// along an axis, p is put on the bounds' midpoint for that axis.
func ClampToBounds(p model.Point2D, boxDepth, boxLateral float64, bounds model.Rect) model.Point2D {
	return model.Point2D{
		X: clampAxis(p.X, boxLateral/2, bounds.MinX, bounds.MaxX),
		Z: clampAxis(p.Z, boxDepth/2, bounds.MinZ, bounds.MaxZ),
	}
}

// ClampToFloor clamps against the rectangle of floorWidth x floorLength
// around center, for callers that have no explicit bounds.
func ClampToFloor(p model.Point2D, boxDepth, boxLateral float64, center model.Point2D, floorWidth, floorLength float64) model.Point2D {
	return ClampToBounds(p, boxDepth, boxLateral, model.RectAround(center, floorWidth, floorLength))
}

func clampAxis(v, half, lo, hi float64) float64 {
	lo += half
	hi -= half
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(v, hi))
}

// transformPoint rotates p around center by the floor rotation and clamps the
// result for a box of the given spec.
func transformPoint(p, center model.Point2D, angle float64, spec model.BoxSpec, bounds model.Rect) model.Point2D {
	return ClampToBounds(RotateAround(center, p, angle), spec.Depth, spec.Lateral, bounds)
}
