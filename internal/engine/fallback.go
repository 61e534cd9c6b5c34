package engine

import (
	"math"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// FallbackPosition lays item index of total on a square grid with the given
// pitch, centered on center. It is total over its inputs and may overlap other
// placements when more items arrive than a floor can hold.
func FallbackPosition(index, total int, center model.Point2D, spacing float64) model.Point2D {
	if total < 1 {
		total = 1
	}
	if index < 0 {
		index = 0
	}
	perRow := int(math.Ceil(math.Sqrt(float64(total))))
	if perRow < 1 {
		perRow = 1
	}
	row := index / perRow
	col := index % perRow

	offset := float64(perRow-1) * spacing / 2
	return model.Point2D{
		X: center.X + float64(col)*spacing - offset,
		Z: center.Z + float64(row)*spacing - offset,
	}
}
