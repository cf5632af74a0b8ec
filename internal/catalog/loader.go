package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var currencyJunk = regexp.MustCompile(`[^\d,.\-]`)

// readRows loads the raw table, header row included. The format is picked by
// extension: .xlsx via excelize, anything else as semicolon-separated CSV.
func readRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// buildProducts turns raw rows into products using the identified columns.
// Rows with an empty description are skipped; sheet order is preserved.
func buildProducts(rows [][]string) ([]Product, map[string]int) {
	if len(rows) == 0 {
		return nil, map[string]int{}
	}
	cols := identifyColumns(rows[0])
	descIdx, ok := cols["descricao"]
	if !ok {
		return nil, cols
	}

	products := make([]Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		desc := strings.TrimSpace(cell(row, descIdx))
		if desc == "" {
			continue
		}
		p := Product{Description: desc}
		if dimIdx, ok := cols["dimensao"]; ok {
			if dim := strings.TrimSpace(cell(row, dimIdx)); dim != "" {
				p.Dimension = &dim
			}
		}
		if valIdx, ok := cols["valor"]; ok {
			p.Value = parseValue(cell(row, valIdx))
		}
		products = append(products, p)
	}
	return products, cols
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseValue coerces a price cell to a float. Accepts currency prefixes and
// both Brazilian (1.234,56) and plain (1234.56) decimal styles; anything
// unparseable becomes nil.
func parseValue(raw string) *float64 {
	cleaned := currencyJunk.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return nil
	}
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &val
}
