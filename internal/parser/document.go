package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Document is a spreadsheet flattened to a cell grid. Cell access is
// 1-based to match the coordinates the vendor layouts are described in.
type Document struct {
	rows [][]string
}

func NewDocument(rows [][]string) *Document {
	return &Document{rows: rows}
}

func (d *Document) NumRows() int {
	return len(d.rows)
}

// Cell returns the trimmed cell value at (row, col), or "" when the
// coordinate is outside the grid.
func (d *Document) Cell(row, col int) string {
	if row < 1 || row > len(d.rows) {
		return ""
	}
	r := d.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return strings.TrimSpace(r[col-1])
}

// Row returns the raw cells of a 1-based row, or nil.
func (d *Document) Row(row int) []string {
	if row < 1 || row > len(d.rows) {
		return nil
	}
	return d.rows[row-1]
}

// ReadDocument parses raw upload bytes into a cell grid. The extension
// decides the reader: excelize for .xlsx, xlsReader for legacy .xls
// (which needs a temp file), encoding/csv for .csv.
func ReadDocument(data []byte, ext string) (*Document, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	case ".csv":
		return readCSV(data)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

func readXLSX(data []byte) (*Document, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer xl.Close()
	sheetName := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return &Document{rows: rows}, nil
}

func readXLS(data []byte) (*Document, error) {
	tmp, err := os.CreateTemp("", "safimport-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("failed to get xls sheet: %w", err)
	}
	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var rowVals []string
		for _, col := range xlsRow.GetCols() {
			rowVals = append(rowVals, col.GetString())
		}
		rows = append(rows, rowVals)
	}
	return &Document{rows: rows}, nil
}

func readCSV(data []byte) (*Document, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return &Document{rows: rows}, nil
}
