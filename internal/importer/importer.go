// Package importer reads container lists from CSV and Excel files and floor
// footprints from DXF drawings. It supports automatic delimiter detection,
// flexible column mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlotPlan/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Containers []model.ContainerRecord
	Errors     []string
	Warnings   []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A value of -1 means the column is absent.
type ColumnMapping struct {
	ID    int
	Label int
	Type  int
	X     int
	Y     int
	Z     int
	Layer int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":    {"id", "container", "container id", "container_id", "uuid"},
	"label": {"label", "name", "description", "desc", "contents"},
	"type":  {"type", "box", "box type", "box_type", "size", "tag"},
	"x":     {"x", "pos x", "position x", "x (m)"},
	"y":     {"y", "pos y", "position y", "elevation", "y (m)"},
	"z":     {"z", "pos z", "position z", "z (m)"},
	"layer": {"layer", "level", "tier", "explicit layer"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// positionalMapping is used when the first row is not a recognized header:
// id, type, x, y, z, layer, label.
var positionalMapping = ColumnMapping{ID: 0, Type: 1, X: 2, Y: 3, Z: 4, Layer: 5, Label: 6}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Label: -1, Type: -1, X: -1, Y: -1, Z: -1, Layer: -1}
	slots := map[string]*int{
		"id":    &mapping.ID,
		"label": &mapping.Label,
		"type":  &mapping.Type,
		"x":     &mapping.X,
		"y":     &mapping.Y,
		"z":     &mapping.Z,
		"layer": &mapping.Layer,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if *slots[role] == -1 {
					*slots[role] = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// ParseTypeTag normalizes a type cell: "xl", " Xl " and "XL" all map to XL.
func ParseTypeTag(s string) model.TypeTag {
	return model.TypeTag(strings.ToUpper(strings.TrimSpace(s)))
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parsePosition decides once whether a row carries an explicit position.
// All three coordinates present means explicit; a partial set is dropped with a warning.
func parsePosition(row []string, mapping ColumnMapping, rowLabel string) (*model.Point3D, string, string) {
	cells := [3]string{getCell(row, mapping.X), getCell(row, mapping.Y), getCell(row, mapping.Z)}
	present := 0
	for _, c := range cells {
		if c != "" {
			present++
		}
	}
	if present == 0 {
		return nil, "", ""
	}
	if present < 3 {
		return nil, "", fmt.Sprintf("%s: Incomplete position (need x, y and z), using automatic placement", rowLabel)
	}

	var coords [3]float64
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.ParseFloat(cells[i], 64)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, cells[i]), ""
		}
		coords[i] = v
	}
	return &model.Point3D{X: coords[0], Y: coords[1], Z: coords[2]}, "", ""
}

// parseRow extracts a ContainerRecord from a row using the given column mapping.
// Returns the record, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.ContainerRecord, string, []string) {
	var warnings []string

	tag := ParseTypeTag(getCell(row, mapping.Type))
	if tag == "" {
		return model.ContainerRecord{}, fmt.Sprintf("%s: Missing box type", rowLabel), nil
	}

	pos, errMsg, warning := parsePosition(row, mapping, rowLabel)
	if errMsg != "" {
		return model.ContainerRecord{}, errMsg, nil
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	rec := model.NewContainer(rowLabel, getCell(row, mapping.Label), tag)
	if id := getCell(row, mapping.ID); id != "" {
		rec.ID = id
	}
	rec.ExplicitPosition = pos

	if layerStr := getCell(row, mapping.Layer); layerStr != "" {
		layer, err := strconv.Atoi(layerStr)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("%s: Invalid layer '%s', ignored", rowLabel, layerStr))
		case layer < 0:
			warnings = append(warnings, fmt.Sprintf("%s: Negative layer %d, ignored", rowLabel, layer))
		default:
			rec.ExplicitLayer = model.Int(layer)
		}
	}

	return rec, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports containers from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports containers from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports containers from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportContainers dispatches on the file extension: .xlsx/.xlsm/.xls go
// through Excel, everything else is read as CSV.
func ImportContainers(path string) ImportResult {
	lower := strings.ToLower(path)
	for _, ext := range []string{".xlsx", ".xlsm", ".xls"} {
		if strings.HasSuffix(lower, ext) {
			return ImportExcel(path)
		}
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// Rows keep their file order, which is the placement priority order.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Type == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Type")
			return result
		}
	} else if x := getCell(rows[0], mapping.X); x != "" {
		// Unrecognized header: the x column holds text instead of a number
		if _, err := strconv.ParseFloat(x, 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		rec, errMsg, warnings := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		if first, dup := seen[rec.ID]; dup {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: Duplicate container id '%s' (first seen on %s)", rowLabel, rec.ID, first))
		} else {
			seen[rec.ID] = rowLabel
		}

		result.Containers = append(result.Containers, rec)
	}

	return result
}
