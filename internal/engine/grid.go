package engine

import (
	"math"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// GridSize returns the row and column counts for tiling a floor area with boxes.
// Raw counts are floor((extent + spacing) / (box + spacing)), at least 1. One
// extra column is then probed; only if that fails is one extra row probed.
func GridSize(floorLength, floorWidth float64, box model.BoxSpec, spacing float64) (rows, cols int) {
	stepX := box.Lateral + spacing
	stepZ := box.Depth + spacing

	cols = rawCount(floorWidth, stepX, spacing)
	rows = rawCount(floorLength, stepZ, spacing)

	if float64(cols)*stepX+box.Lateral <= floorWidth {
		cols++
	} else if float64(rows)*stepZ+box.Depth <= floorLength {
		rows++
	}
	return rows, cols
}

func rawCount(extent, step, spacing float64) int {
	if step <= 0 {
		return 1
	}
	n := int(math.Floor((extent + spacing) / step))
	if n < 1 {
		return 1
	}
	return n
}

// GenerateGrid tiles a floor area centered on center with slots for one box
// type, replicated over every layer that fits under the next floor.
// Slots are emitted layer by layer, row by row, column by column.
func GenerateGrid(tag model.TypeTag, geom model.FloorGeometry, center model.Point2D, floorLength, floorWidth float64, box model.BoxSpec, spacing float64) model.SlotGrid {
	rows, cols := GridSize(floorLength, floorWidth, box, spacing)
	layers := geom.LayerCount(box.Height)

	stepX := box.Lateral + spacing
	stepZ := box.Depth + spacing

	// Envelope of the occupied footprints; the first slot sits half a step
	// in from the edge of the cols*step wide cell block.
	gridWidth := float64(cols)*stepX - spacing
	gridLength := float64(rows)*stepZ - spacing
	startX := center.X - gridWidth/2 + box.Lateral/2
	startZ := center.Z - gridLength/2 + box.Depth/2

	slots := make([]model.Slot, 0, rows*cols*layers)
	for layer := 0; layer < layers; layer++ {
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				slots = append(slots, model.Slot{
					LocalX: startX + float64(col)*stepX,
					LocalZ: startZ + float64(row)*stepZ,
					Layer:  layer,
					Row:    row,
					Col:    col,
				})
			}
		}
	}

	bounds := model.RectAround(center, gridWidth, gridLength)
	if clipped, ok := bounds.Intersect(geom.Bounds); ok {
		bounds = clipped
	} else {
		bounds = geom.Bounds
	}

	return model.SlotGrid{
		Type:   tag,
		Center: center,
		Rows:   rows,
		Cols:   cols,
		Layers: layers,
		Slots:  slots,
		Bounds: bounds,
	}
}
