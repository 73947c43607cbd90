package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Dataset is an uploaded tabular file: a header row plus data rows.
// Cells are kept as strings; numeric coercion happens at aggregation time.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// ColumnIndex finds a column by name, case-insensitive with surrounding
// whitespace ignored
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, col := range d.Columns {
		if strings.ToLower(strings.TrimSpace(col)) == want {
			return i, true
		}
	}
	return 0, false
}

// RequireColumn is ColumnIndex with a halt-the-run error on a miss
func (d *Dataset) RequireColumn(name string) (int, error) {
	idx, ok := d.ColumnIndex(name)
	if !ok {
		return 0, fmt.Errorf("required column %q not found in %s (columns: %s)",
			name, d.Name, strings.Join(d.Columns, ", "))
	}
	return idx, nil
}

// LoadDataset reads a delimited text or spreadsheet file from disk,
// choosing the parser by file extension
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return ParseDataset(filepath.Base(path), data)
}

// ParseDataset parses raw file bytes using the extension of name.
// Excel extensions go through excelize; everything else is treated as
// delimited text.
func ParseDataset(name string, data []byte) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xls":
		return parseExcel(name, data)
	default:
		return parseDelimited(name, data)
	}
}

// parseDelimited parses CSV-like data, sniffing the delimiter from the
// header line (comma, semicolon or tab)
func parseDelimited(name string, data []byte) (*Dataset, error) {
	// Strip a UTF-8 BOM; spreadsheet exports frequently carry one
	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if isBlankRow(record) {
			continue
		}
		records = append(records, record)
	}

	return buildDataset(name, records)
}

// parseExcel reads the first sheet of a workbook
func parseExcel(name string, data []byte) (*Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", name)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, name, err)
	}

	var records [][]string
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		records = append(records, row)
	}

	return buildDataset(name, records)
}

func buildDataset(name string, records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s contains no data", name)
	}

	columns := make([]string, len(records[0]))
	for i, col := range records[0] {
		columns[i] = strings.TrimSpace(col)
	}

	if len(records) == 1 {
		return nil, fmt.Errorf("%s contains a header but no rows", name)
	}

	return &Dataset{
		Name:    name,
		Columns: columns,
		Rows:    records[1:],
	}, nil
}

// sniffDelimiter inspects the first line and picks the most frequent of
// comma, semicolon and tab
func sniffDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}

	best := ','
	bestCount := bytes.Count(line, []byte{','})
	if n := bytes.Count(line, []byte{';'}); n > bestCount {
		best, bestCount = ';', n
	}
	if n := bytes.Count(line, []byte{'\t'}); n > bestCount {
		best = '\t'
	}
	return best
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
