// Package export writes placement results to PDF floor plans, QR-coded
// container labels and Excel reports.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// boxColor represents an RGB fill color.
type boxColor struct {
	R, G, B int
}

// typeColors assigns a fill per box type in registry order.
var typeColors = []boxColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// floorCanvas maps floor coordinates in meters to page millimeters.
// Floor X runs to the right, floor Z runs down the page.
type floorCanvas struct {
	bounds  model.Rect
	scale   float64
	offsetX float64
	offsetY float64
}

func newFloorCanvas(bounds model.Rect) floorCanvas {
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/bounds.Width(), drawHeight/bounds.Length())
	canvasW := bounds.Width() * scale

	return floorCanvas{
		bounds:  bounds,
		scale:   scale,
		offsetX: marginLeft + (drawWidth-canvasW)/2,
		offsetY: drawAreaTop,
	}
}

// rect converts a floor rectangle to page x, y, w, h.
func (c floorCanvas) rect(r model.Rect) (x, y, w, h float64) {
	return c.offsetX + (r.MinX-c.bounds.MinX)*c.scale,
		c.offsetY + (r.MinZ-c.bounds.MinZ)*c.scale,
		r.Width() * c.scale,
		r.Length() * c.scale
}

// ExportPDF generates a PDF floor plan of a placement result. Each layer
// that holds placements is rendered on its own page, followed by a summary
// page with capacity, utilization and the given warnings.
func ExportPDF(path string, result model.PlanResult, warnings []string) error {
	if len(result.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}
	if result.Geometry.Bounds.Area() <= 0 {
		return fmt.Errorf("floor bounds have no area")
	}

	colors := colorsByType(result)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, layer := range result.Layers() {
		pdf.AddPage()
		renderLayerPage(pdf, result, layer, colors)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result, warnings)

	return pdf.OutputFileAndClose(path)
}

// colorsByType assigns fill colors in grid order so a type keeps its color across pages.
func colorsByType(result model.PlanResult) map[model.TypeTag]boxColor {
	colors := make(map[model.TypeTag]boxColor)
	for i, g := range result.Grids {
		colors[g.Type] = typeColors[i%len(typeColors)]
	}
	for _, p := range result.Placements {
		if _, ok := colors[p.BoxType]; !ok {
			colors[p.BoxType] = typeColors[len(colors)%len(typeColors)]
		}
	}
	return colors
}

// renderLayerPage draws the floor, the grid envelopes and the placed boxes of one layer.
func renderLayerPage(pdf *fpdf.Fpdf, result model.PlanResult, layer int, colors map[model.TypeTag]boxColor) {
	geom := result.Geometry
	var placed []model.PlacementResult
	for _, p := range result.Placements {
		if p.Layer == layer {
			placed = append(placed, p)
		}
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Floor %d, layer %d (%.2f x %.2f m)", geom.Index, layer, geom.Bounds.Width(), geom.Bounds.Length())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Containers: %d | Utilization: %.1f%% | Rotation: %.1f deg",
		len(placed), result.LayerUtilization()[layer], geom.Rotation*180/math.Pi)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	canvas := newFloorCanvas(geom.Bounds)

	// Shelf floor
	fx, fy, fw, fh := canvas.rect(geom.Bounds)
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(fx, fy, fw, fh, "FD")

	// Grid envelopes of the types that have this layer
	pdf.SetLineWidth(0.15)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for _, g := range result.Grids {
		if layer >= g.Layers {
			continue
		}
		col := colors[g.Type]
		pdf.SetDrawColor(col.R, col.G, col.B)
		x, y, w, h := canvas.rect(g.Bounds)
		pdf.Rect(x, y, w, h, "D")
	}
	pdf.SetDashPattern([]float64{}, 0)

	for _, p := range placed {
		col := colors[p.BoxType]
		x, y, w, h := canvas.rect(p.Footprint())

		pdf.SetFillColor(col.R, col.G, col.B)
		if p.Source == model.SourceFallback {
			pdf.SetDrawColor(200, 0, 0)
			pdf.SetLineWidth(0.6)
		} else {
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
		}
		pdf.Rect(x, y, w, h, "FD")

		if w > 12 && h > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(w, h))
			pdf.SetTextColor(0, 0, 0)
			text := fmt.Sprintf("%s %s", p.ContainerID, p.BoxType)
			textW := pdf.GetStringWidth(text)
			if textW < w-2 {
				pdf.SetXY(x+(w-textW)/2, y+h/2-2)
				pdf.CellFormat(textW, 4, text, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, geom.Bounds, canvas)
	drawTypeLegend(pdf, result, colors, fy+fh+6)
}

// drawDimensionAnnotations adds width and length labels outside the floor rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, bounds model.Rect, canvas floorCanvas) {
	_, _, canvasW, canvasH := canvas.rect(bounds)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.3f m", bounds.Width())
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(canvas.offsetX+(canvasW-wLabelW)/2, canvas.offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%.3f m", bounds.Length())
	pdf.TransformBegin()
	pdf.TransformRotate(90, canvas.offsetX-3, canvas.offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(canvas.offsetX-3-lLabelW/2, canvas.offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawTypeLegend renders one swatch per box type with its size.
func drawTypeLegend(pdf *fpdf.Fpdf, result model.PlanResult, colors map[model.TypeTag]boxColor, startY float64) {
	sizes := make(map[model.TypeTag]model.BoxSpec)
	var order []model.TypeTag
	for _, p := range result.Placements {
		if _, ok := sizes[p.BoxType]; !ok {
			sizes[p.BoxType] = p.Size
			order = append(order, p.BoxType)
		}
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Types:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	for _, tag := range order {
		col := colors[tag]
		s := sizes[tag]
		label := fmt.Sprintf("%s (%.2f x %.2f x %.2f m)", tag, s.Lateral, s.Depth, s.Height)
		labelW := pdf.GetStringWidth(label) + 6

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}

	pdf.SetXY(xPos+4, startY)
	pdf.SetTextColor(200, 0, 0)
	pdf.CellFormat(40, 4, "red outline = fallback", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the final page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PlanResult, warnings []string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Placement Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	counts := result.CountBySource()

	summaryItems := []struct {
		label string
		value string
	}{
		{"Containers Placed", fmt.Sprintf("%d", len(result.Placements))},
		{"Slot Capacity", fmt.Sprintf("%d", result.TotalCapacity())},
		{"Own-Type Slots", fmt.Sprintf("%d", counts[model.SourceSlot])},
		{"Explicit Positions", fmt.Sprintf("%d", counts[model.SourceExplicit])},
		{"Cross-Type Slots", fmt.Sprintf("%d", counts[model.SourceCrossType])},
		{"Fallback Positions", fmt.Sprintf("%d", counts[model.SourceFallback])},
		{"Rejected Records", fmt.Sprintf("%d", len(result.Rejected))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Grids", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{25, 25, 25, 25, 30, 60}
	headers := []string{"Type", "Rows", "Cols", "Layers", "Capacity", "Envelope"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, g := range result.Grids {
		xPos = marginLeft
		rowData := []string{
			string(g.Type),
			fmt.Sprintf("%d", g.Rows),
			fmt.Sprintf("%d", g.Cols),
			fmt.Sprintf("%d", g.Layers),
			fmt.Sprintf("%d", g.Capacity()),
			fmt.Sprintf("%.3f x %.3f m", g.Bounds.Width(), g.Bounds.Length()),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.Rejected) > 0 || len(warnings) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNINGS", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		lines := make([]string, 0, len(result.Rejected)+len(warnings))
		for _, r := range result.Rejected {
			lines = append(lines, fmt.Sprintf("Container %s: unknown box type %q, not placed", r.ID, r.BoxType))
		}
		lines = append(lines, warnings...)
		for i, line := range lines {
			if y > pageHeight-marginBottom-10 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, fmt.Sprintf("... %d more", len(lines)-i), "", 0, "L", false, 0, "")
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(260, 5, "- "+line, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by SlotPlan - shelf slot planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
