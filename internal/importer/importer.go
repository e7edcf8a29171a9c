// Package importer turns model files and object lists into footprints.
// Box lists come from CSV or Excel files with automatic delimiter detection and
// case-insensitive header recognition; meshes come from STL, outlines from DXF.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/PlateArrange/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Footprints []model.Footprint
	Errors     []string
	Warnings   []string
}

// merge appends another result.
func (r *ImportResult) merge(o ImportResult) {
	r.Footprints = append(r.Footprints, o.Footprints...)
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Width    int
	Depth    int
	Height   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "label", "object", "part", "description", "desc", "item"},
	"width":    {"width", "w", "x", "length", "len"},
	"depth":    {"depth", "d", "y"},
	"height":   {"height", "h", "z"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
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

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (name, width, depth, height, quantity) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Width: -1, Depth: -1, Height: -1, Quantity: -1}
	slots := map[string]*int{
		"name":     &mapping.Name,
		"width":    &mapping.Width,
		"depth":    &mapping.Depth,
		"height":   &mapping.Height,
		"quantity": &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Width: 1, Depth: 2, Height: 3, Quantity: 4}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDim(row []string, idx int, what, rowLabel string) (float64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, what)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, what, s)
	}
	return v, ""
}

// parseRow extracts box footprints from a row, one per quantity.
// Returns the footprints, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) ([]model.Footprint, string, string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Object %d", count+1)
	}

	width, errMsg := parseDim(row, mapping.Width, "width", rowLabel)
	if errMsg != "" {
		return nil, errMsg, ""
	}
	depth, errMsg := parseDim(row, mapping.Depth, "depth", rowLabel)
	if errMsg != "" {
		return nil, errMsg, ""
	}
	height, errMsg := parseDim(row, mapping.Height, "height", rowLabel)
	if errMsg != "" {
		return nil, errMsg, ""
	}

	qty := 1
	var warning string
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		q, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), ""
		}
		qty = q
	} else if mapping.Quantity >= 0 {
		warning = fmt.Sprintf("%s: Missing quantity, defaulting to 1", rowLabel)
	}

	if width <= 0 || depth <= 0 || height < 0 || qty <= 0 {
		return nil, fmt.Sprintf("%s: Width, depth and quantity must be positive, height must not be negative", rowLabel), ""
	}
	if qty > model.MaxObjects-count {
		return nil, fmt.Sprintf("%s: Quantity %d exceeds the limit of %d objects", rowLabel, qty, model.MaxObjects), ""
	}

	fps := make([]model.Footprint, qty)
	for i := range fps {
		fps[i] = model.NewBoxSolid(name, width, depth, height)
	}
	return fps, "", warning
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

// ImportCSV imports box footprints from a CSV file.
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

// ImportCSVFromReader imports box footprints from a CSV reader with a known delimiter.
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

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports box footprints from the first sheet of an Excel file.
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

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			// Unrecognized header: skip it but keep positional mapping
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected unknown header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		fps, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Footprints))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Footprints = append(result.Footprints, fps...)
	}

	return result
}

// ImportFile dispatches on the file extension. dxfHeight is the Z extent given to
// outlines read from DXF files.
func ImportFile(path string, dxfHeight float64) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		solid, err := ImportSTL(path)
		if err != nil {
			return ImportResult{Errors: []string{err.Error()}}
		}
		return ImportResult{Footprints: []model.Footprint{solid}}
	case ".dxf":
		return ImportDXF(path, dxfHeight)
	case ".csv", ".txt":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("%s: unsupported file type", path)}}
	}
}

// ImportFiles imports every path and merges the results in order.
func ImportFiles(paths []string, dxfHeight float64) ImportResult {
	var result ImportResult
	for _, p := range paths {
		result.merge(ImportFile(p, dxfHeight))
	}
	return result
}
