package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// SummarySheet is the name of the first worksheet of a placement report.
const SummarySheet = "Summary"

var placementHeaders = []string{"Order", "Container", "Type", "Source", "Slot Grid", "Row", "Col", "X", "Y", "Z"}

// LayerSheetName returns the worksheet name used for a layer.
func LayerSheetName(layer int) string {
	return fmt.Sprintf("Layer %d", layer)
}

// ExportReport writes a placement result to an Excel workbook: a summary
// sheet followed by one sheet per occupied layer listing its placements.
func ExportReport(path string, result model.PlanResult, warnings []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(f, result, warnings); err != nil {
		return err
	}

	for _, layer := range result.Layers() {
		sheet := LayerSheetName(layer)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, "A1", &placementHeaders); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}

		row := 2
		for i, p := range result.Placements {
			if p.Layer != layer {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := []interface{}{
				i + 1, p.ContainerID, string(p.BoxType), string(p.Source), string(p.SlotType),
				p.Row, p.Col, p.Position.X, p.Position.Y, p.Position.Z,
			}
			if p.SlotType == "" {
				values[5], values[6] = "", ""
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, result model.PlanResult, warnings []string) error {
	geom := result.Geometry
	counts := result.CountBySource()
	util := result.LayerUtilization()

	rows := [][]interface{}{
		{"Floor", geom.Index},
		{"Width (m)", geom.Bounds.Width()},
		{"Length (m)", geom.Bounds.Length()},
		{"Base elevation (m)", geom.BaseElevation},
		{"Vertical gap (m)", geom.VerticalGap},
		{"Placements", len(result.Placements)},
		{"Slot capacity", result.TotalCapacity()},
		{"Own-type slots", counts[model.SourceSlot]},
		{"Explicit", counts[model.SourceExplicit]},
		{"Cross-type slots", counts[model.SourceCrossType]},
		{"Fallback", counts[model.SourceFallback]},
		{"Rejected", len(result.Rejected)},
		{},
		{"Grid", "Rows", "Cols", "Layers", "Capacity"},
	}
	for _, g := range result.Grids {
		rows = append(rows, []interface{}{string(g.Type), g.Rows, g.Cols, g.Layers, g.Capacity()})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Layer", "Utilization (%)"})
	for _, layer := range result.Layers() {
		rows = append(rows, []interface{}{layer, util[layer]})
	}
	if len(result.Rejected) > 0 || len(warnings) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Warnings"})
		for _, r := range result.Rejected {
			rows = append(rows, []interface{}{fmt.Sprintf("Container %s: unknown box type %q, not placed", r.ID, r.BoxType)})
		}
		for _, w := range warnings {
			rows = append(rows, []interface{}{w})
		}
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	return nil
}
