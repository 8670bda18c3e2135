package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// Options controls how a file becomes a Dataset.
type Options struct {
	// Delimiter for CSV. If 0, chosen from the file extension (.tsv → tab, else ',').
	Delimiter rune
	// NAValues are cell markers treated as missing in addition to the empty string.
	NAValues []string
	// SheetName picks an xlsx worksheet by name (case-insensitive). When empty,
	// SheetIndex (1-based, default 1) is used.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	return Options{NAValues: []string{"NA", "NaN", "<nil>", "null"}}
}

// Load reads a CSV/TSV or XLSX file, choosing the reader by extension.
func Load(path string, opt Options) (*Dataset, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt, opt.SheetName, opt.SheetIndex)
	}
	return LoadCSV(path, opt)
}

// LoadCSV parses a delimited text file. The first record is the header.
func LoadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	// leading-space trimming would swallow empty fields when the delimiter is whitespace
	r.TrimLeadingSpace = delim != '\t' && delim != ' '
	r.Comma = delim

	records, err := r.ReadAll()
	if err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("parse csv: %w", err)}
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	ds, err := FromRecords(filepath.Base(path), records, opt)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return ds, nil
}

// LoadXLSX reads one sheet of a workbook. If sheetName is empty the 1-based
// sheetIndex selects the sheet (values <= 0 mean the first one).
func LoadXLSX(path string, opt Options, sheetName string, sheetIndex int) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	target := ""
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				target = s
				break
			}
		}
		if target == "" {
			return nil, &ReadError{Path: path, Err: fmt.Errorf("sheet '%s' not found; available sheets: %s",
				sheetName, strings.Join(sheets, ", "))}
		}
	} else {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, &ReadError{Path: path, Err: fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))}
		}
		target = sheets[idx-1]
	}
	rows, err := f.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ReadError{Path: path, Err: fmt.Errorf("read sheet %s: %w", target, err)}
	}
	ds, err := FromRecords(filepath.Base(path), rows, opt)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	return ds, nil
}

// FromRecords builds a Dataset from raw records whose first row is the header.
// Short rows are padded with missing cells; extra fields are dropped with a warning.
func FromRecords(name string, records [][]string, opt Options) (*Dataset, error) {
	ds := &Dataset{name: name, na: append([]string{""}, opt.NAValues...)}
	if len(records) == 0 || len(records[0]) == 0 {
		return ds, nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	ncol := len(header)

	rows := make([][]string, 0, len(records)-1)
	ragged := 0
	for _, rec := range records[1:] {
		row := make([]string, ncol)
		if len(rec) > ncol {
			ragged++
		}
		for j := 0; j < ncol && j < len(rec); j++ {
			row[j] = strings.TrimSpace(rec[j])
		}
		rows = append(rows, row)
	}
	if ragged > 0 {
		ds.Warnings = append(ds.Warnings, fmt.Sprintf("%d rows had more fields than the header; extra fields dropped", ragged))
	}

	if len(rows) == 0 {
		cols := make([]series.Series, ncol)
		for j, h := range header {
			cols[j] = series.New([]string{}, series.String, h)
		}
		df := dataframe.New(cols...)
		if df.Err != nil {
			return nil, fmt.Errorf("build empty dataset: %w", df.Err)
		}
		ds.df = df
		return ds, nil
	}

	nan := ds.na
	all := make([][]string, 0, len(rows)+1)
	all = append(all, header)
	all = append(all, rows...)
	load := func(types map[string]series.Type) dataframe.DataFrame {
		return dataframe.LoadRecords(all,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(true),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(nan),
			dataframe.WithTypes(types),
		)
	}
	df := load(nil)
	if df.Err != nil {
		return nil, fmt.Errorf("build dataset: %w", df.Err)
	}
	// bool detection also accepts tokens like 1 or t, which would be rewritten
	if text := looseBoolColumns(df, rows, nan); len(text) > 0 {
		df = load(text)
		if df.Err != nil {
			return nil, fmt.Errorf("build dataset: %w", df.Err)
		}
	}
	ds.df = df
	return ds, nil
}

// looseBoolColumns returns the bool-typed columns holding any present value
// other than true/false, mapped to String.
func looseBoolColumns(df dataframe.DataFrame, rows [][]string, nan []string) map[string]series.Type {
	var out map[string]series.Type
	names := df.Names()
	for j, t := range df.Types() {
		if t != series.Bool {
			continue
		}
		for _, row := range rows {
			v := row[j]
			if isNAToken(v, nan) || strings.EqualFold(v, "true") || strings.EqualFold(v, "false") {
				continue
			}
			if out == nil {
				out = map[string]series.Type{}
			}
			out[names[j]] = series.String
			break
		}
	}
	return out
}

func isNAToken(v string, nan []string) bool {
	for _, n := range nan {
		if v == n {
			return true
		}
	}
	return false
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}
