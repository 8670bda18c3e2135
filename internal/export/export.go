package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
	"github.com/KaramelBytes/dataqc-cli/internal/utils"
)

// Options controls spreadsheet output.
type Options struct {
	// Sheet is the worksheet name; defaults to Sheet1.
	Sheet string
	// Delimiter for CSV output; defaults to ','.
	Delimiter rune
}

// DefaultOptions returns the export defaults.
func DefaultOptions() Options {
	return Options{Sheet: "Sheet1", Delimiter: ','}
}

// Write serializes ds to path, choosing the format from the extension
// (.csv/.tsv as delimited text, anything else as xlsx).
func Write(ds *dataset.Dataset, path string, opt Options) error {
	switch utils.Ext(path) {
	case "csv":
		return WriteCSV(ds, path, opt)
	case "tsv":
		opt.Delimiter = '\t'
		return WriteCSV(ds, path, opt)
	default:
		return WriteXLSX(ds, path, opt)
	}
}

// WriteXLSX writes ds as a single worksheet: a header row followed by one row
// per record, with no index column. Missing cells are left blank. The
// workbook is built in memory and renamed into place, so path either receives
// the complete file or is left untouched.
func WriteXLSX(ds *dataset.Dataset, path string, opt Options) error {
	if ds == nil {
		return &WriteError{Path: path, Err: errors.New("no dataset")}
	}
	b, err := renderXLSX(ds, opt)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func renderXLSX(ds *dataset.Dataset, opt Options) ([]byte, error) {
	sheet := opt.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("stream writer: %w", err)
	}
	header := make([]interface{}, ds.Cols())
	for j, name := range ds.Columns() {
		header[j] = name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < ds.Rows(); i++ {
		row := make([]interface{}, ds.Cols())
		for j := range row {
			row[j] = xlsxValue(ds.Cell(i, j))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// xlsxValue maps a dataset cell to a worksheet value. Bools are written as
// lower-case text so a reload infers them as bools again.
func xlsxValue(v any) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case bool:
		return strconv.FormatBool(x)
	default:
		return x
	}
}

// WriteCSV writes ds as delimited text with a header row; missing cells are empty.
func WriteCSV(ds *dataset.Dataset, path string, opt Options) error {
	if ds == nil {
		return &WriteError{Path: path, Err: errors.New("no dataset")}
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}
	if err := w.WriteAll(ds.Records()); err != nil {
		return &WriteError{Path: path, Err: fmt.Errorf("encode csv: %w", err)}
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
