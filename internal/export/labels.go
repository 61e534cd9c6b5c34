package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// LabelInfo holds the data encoded into each container label's QR code.
type LabelInfo struct {
	ContainerID string                `json:"id"`
	Label       string                `json:"label,omitempty"`
	BoxType     model.TypeTag         `json:"type"`
	Floor       int                   `json:"floor"`
	Layer       int                   `json:"layer"`
	X           float64               `json:"x"`
	Y           float64               `json:"y"`
	Z           float64               `json:"z"`
	Source      model.PlacementSource `json:"source"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per placed container,
// in placement order. containers supplies the human-readable labels and may be nil.
// Labels are laid out on Avery 5160 sheets (3 columns x 10 rows on US Letter);
// perSheet limits how many cells of each sheet are used, 0 means all of them.
func ExportLabels(path string, result model.PlanResult, containers []model.ContainerRecord, perSheet int) error {
	labels := CollectLabelInfos(result, containers)
	if len(labels) == 0 {
		return fmt.Errorf("no containers placed to generate labels for")
	}
	perSheet = sheetCapacity(perSheet)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%perSheet == 0 {
			pdf.AddPage()
		}

		posOnPage := i % perSheet
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.ContainerID, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

func sheetCapacity(perSheet int) int {
	if perSheet <= 0 || perSheet > labelsPerPage {
		return labelsPerPage
	}
	return perSheet
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, index int, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%s", index, info.ContainerID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	title := info.ContainerID
	if info.Label != "" {
		title = info.Label
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, title, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("Type %s  id %s", info.BoxType, info.ContainerID), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	where := fmt.Sprintf("Floor %d layer %d @ (%.2f, %.2f, %.2f)", info.Floor, info.Layer, info.X, info.Y, info.Z)
	pdf.CellFormat(textW, 3, truncate(pdf, where, textW), "", 1, "L", false, 0, "")

	if info.Source == model.SourceFallback {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(textW, 3, "Overflow position, no slot", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits in width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// CollectLabelInfos builds one label per placement, in placement order.
func CollectLabelInfos(result model.PlanResult, containers []model.ContainerRecord) []LabelInfo {
	names := make(map[string]string, len(containers))
	for _, c := range containers {
		names[c.ID] = c.Label
	}

	labels := make([]LabelInfo, 0, len(result.Placements))
	for _, p := range result.Placements {
		labels = append(labels, LabelInfo{
			ContainerID: p.ContainerID,
			Label:       names[p.ContainerID],
			BoxType:     p.BoxType,
			Floor:       result.Geometry.Index,
			Layer:       p.Layer,
			X:           p.Position.X,
			Y:           p.Position.Y,
			Z:           p.Position.Z,
			Source:      p.Source,
		})
	}
	return labels
}
