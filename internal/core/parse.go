package core

// parse.go turns an uploaded buffer into RawRows.
//
// CSV and spreadsheet files take independent paths that meet at the same
// shape: a header row plus a grid of cells, folded into header-keyed maps by
// buildRows. A nil cell means "absent" and is left out of the row.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FormatFromFilename picks the parser for an uploaded file by extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ParseFile decodes data as format and returns its data rows in file order.
// The buffer is not retained.
func ParseFile(data []byte, format Format) ([]RawRow, error) {
	var (
		header []string
		grid   [][]any
		err    error
	)

	switch format {
	case FormatCSV:
		header, grid, err = readCSV(data)
	case FormatXLSX:
		header, grid, err = readXLSX(data)
	case FormatXLS:
		header, grid, err = readXLS(data)
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	rows := buildRows(header, grid)
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return rows, nil
}

// readCSV treats the first record as header. Header cells are trimmed;
// data cells are kept verbatim, including empty strings.
func readCSV(data []byte) ([]string, [][]any, error) {
	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	grid := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		cells := make([]any, len(rec))
		for i, v := range rec {
			cells[i] = v
		}
		grid = append(grid, cells)
	}
	return header, grid, nil
}

// readXLSX reads the first worksheet by position. Numeric cells become float64.
func readXLSX(data []byte) ([]string, [][]any, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("invalid spreadsheet: read sheet %q: %w", sheet, err)
	}
	// The table may start below blank rows; the header is the first row
	// with any content.
	start := 0
	for start < len(rows) && blankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, nil, nil
	}

	header := make([]string, len(rows[start]))
	copy(header, rows[start])

	grid := make([][]any, 0, len(rows)-start-1)
	for r := start + 1; r < len(rows); r++ {
		row := rows[r]
		cells := make([]any, len(row))
		for c, v := range row {
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid spreadsheet: %w", err)
			}
			cells[c] = xlsxCellValue(f, sheet, axis, v)
		}
		grid = append(grid, cells)
	}
	return header, grid, nil
}

func blankRow(cells []string) bool {
	for _, v := range cells {
		if v != "" {
			return false
		}
	}
	return true
}

// xlsxCellValue returns raw as float64 when the cell is stored as a number.
func xlsxCellValue(f *excelize.File, sheet, axis, raw string) any {
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}

// readXLS reads the first worksheet of a legacy BIFF workbook.
// The library formats every cell as text.
func readXLS(data []byte) ([]string, [][]any, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid spreadsheet: %w", err)
	}
	if wb == nil {
		return nil, nil, fmt.Errorf("invalid spreadsheet: no workbook stream")
	}
	if wb.NumSheets() == 0 {
		return nil, nil, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil, nil
	}

	var (
		header []string
		grid   [][]any
	)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			continue
		}
		last := row.LastCol()
		cells := make([]any, last)
		present := false
		for c := row.FirstCol(); c < last; c++ {
			if v := row.Col(c); v != "" {
				cells[c] = v
				present = true
			}
		}
		if header == nil {
			if !present {
				continue
			}
			header = make([]string, last)
			for c, v := range cells {
				if v != nil {
					header[c] = v.(string)
				}
			}
			continue
		}
		grid = append(grid, cells)
	}
	return header, grid, nil
}

// xlsRow returns nil for a row index the sheet holds no record for.
// WorkSheet.Row dereferences the missing entry, hence the recover.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// buildRows keys each grid row by header position. Cells past the header
// width are dropped. Rows with no present cell at all are skipped.
func buildRows(header []string, grid [][]any) []RawRow {
	keys := uniqueHeaders(header)

	rows := make([]RawRow, 0, len(grid))
	for _, cells := range grid {
		row := make(RawRow, len(keys))
		for i, v := range cells {
			if i >= len(keys) || v == nil {
				continue
			}
			row[keys[i]] = v
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// uniqueHeaders suffixes repeated header names with _1, _2, ...
func uniqueHeaders(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			out[i] = h
			continue
		}
		out[i] = h + "_" + strconv.Itoa(n)
	}
	return out
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.WriteRune(r)
		}
		data = data[size:]
	}
	return buf.Bytes()
}
