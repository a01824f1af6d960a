// Package importer reads tube-sheet hole layouts from DXF drawings and
// from CSV or Excel hole lists. List import supports automatic delimiter
// detection, flexible column mapping, and case-insensitive header
// recognition.
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

	"github.com/holemap/holemap/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Holes    []model.Hole
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID     int
	X      int
	Y      int
	Radius int
	Status int
	Row    int
	Column int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":     {"id", "hole", "hole id", "hole_id", "tag", "name", "label"},
	"x":      {"x", "x_mm", "cx", "center x", "xpos"},
	"y":      {"y", "y_mm", "cy", "center y", "ypos"},
	"radius": {"radius", "r", "rad", "radius_mm", "diameter", "dia", "d"},
	"status": {"status", "state", "result", "outcome"},
	"row":    {"row", "row index", "row_index"},
	"column": {"column", "col", "column index", "column_index"},
}

// diameterAliases lists the radius aliases that actually carry a diameter
// and must be halved on import.
var diameterAliases = map[string]bool{"diameter": true, "dia": true, "d": true}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter. It tries comma, semicolon, tab, and pipe; the delimiter
// producing the most consistent multi-column split wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.Comment = '#'
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

// DetectColumns examines a header row and returns a ColumnMapping plus a
// flag telling whether the data carries diameters instead of radii.
// Returns the mapping and true if a header was detected, or a default
// positional mapping (id, x, y, radius, status) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool, bool) {
	mapping := ColumnMapping{ID: -1, X: -1, Y: -1, Radius: -1, Status: -1, Row: -1, Column: -1}
	isHeader := false
	isDiameter := false

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "id":
					if mapping.ID == -1 {
						mapping.ID = i
					}
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				case "radius":
					if mapping.Radius == -1 {
						mapping.Radius = i
						isDiameter = diameterAliases[normalized]
					}
				case "status":
					if mapping.Status == -1 {
						mapping.Status = i
					}
				case "row":
					if mapping.Row == -1 {
						mapping.Row = i
					}
				case "column":
					if mapping.Column == -1 {
						mapping.Column = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, X: 1, Y: 2, Radius: 3, Status: 4, Row: -1, Column: -1}, false, false
	}
	return mapping, true, isDiameter
}

// getCell safely retrieves a trimmed cell value by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Hole from a row using the given column mapping.
// Returns the hole, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, isDiameter bool, rowLabel string, holeCount int) (model.Hole, string, []string) {
	id := getCell(row, mapping.ID)
	if id == "" {
		id = fmt.Sprintf("H%05d", holeCount+1)
	}

	xStr := getCell(row, mapping.X)
	if xStr == "" {
		return model.Hole{}, fmt.Sprintf("%s: Missing X coordinate", rowLabel), nil
	}
	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return model.Hole{}, fmt.Sprintf("%s: Invalid X '%s'", rowLabel, xStr), nil
	}

	yStr := getCell(row, mapping.Y)
	if yStr == "" {
		return model.Hole{}, fmt.Sprintf("%s: Missing Y coordinate", rowLabel), nil
	}
	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return model.Hole{}, fmt.Sprintf("%s: Invalid Y '%s'", rowLabel, yStr), nil
	}

	radius := 0.0
	if radiusStr := getCell(row, mapping.Radius); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return model.Hole{}, fmt.Sprintf("%s: Invalid radius '%s'", rowLabel, radiusStr), nil
		}
		if isDiameter {
			radius /= 2
		}
	}
	if radius < 0 {
		return model.Hole{}, fmt.Sprintf("%s: Radius must not be negative", rowLabel), nil
	}

	hole := model.NewHole(id, x, y, radius)
	var warnings []string

	// Optional initial status (re-imported result lists carry one).
	if statusStr := getCell(row, mapping.Status); statusStr != "" {
		status, ok := model.ParseStatus(statusStr)
		if ok {
			hole.Status = status
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown status '%s', defaulting to Pending", rowLabel, statusStr))
		}
	}

	// Optional grid indices (re-imported result lists carry them; -1 means
	// unknown and is left for inference on load).
	if rowIdxStr := getCell(row, mapping.Row); rowIdxStr != "" {
		if v, err := strconv.Atoi(rowIdxStr); err == nil {
			hole.Row = v
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid row index '%s', ignored", rowLabel, rowIdxStr))
		}
	}
	if colIdxStr := getCell(row, mapping.Column); colIdxStr != "" {
		if v, err := strconv.Atoi(colIdxStr); err == nil {
			hole.Column = v
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Invalid column index '%s', ignored", rowLabel, colIdxStr))
		}
	}

	return hole, "", warnings
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

// ImportCSV imports a hole list from a CSV file. It automatically detects
// the delimiter and maps columns by header names.
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
	reader.Comment = '#'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports a hole list from a CSV reader with a known
// delimiter. Used by tests and by paste-import.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.Comment = '#'
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

// ImportExcel imports a hole list from an Excel (.xlsx) file. Reads the
// first sheet and auto-detects column mapping from headers.
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

// importFromRows is the shared import logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader, isDiameter := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// First column after the id is not numeric; treat the row as an
			// unrecognized header and fall back to positional mapping.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, lineNum)
		hole, errMsg, warnings := parseRow(row, mapping, isDiameter, rowLabel, len(result.Holes))

		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		if seen[hole.ID] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: Duplicate hole id '%s', skipped", rowLabel, hole.ID))
			continue
		}
		seen[hole.ID] = true

		result.Holes = append(result.Holes, hole)
	}

	return result
}
