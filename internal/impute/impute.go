package impute

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
)

// Lookup supplies a replacement for a column. ok=false or an empty value
// means no value was given and the column is skipped.
type Lookup func(column string) (value string, ok bool)

// Outcome is what happened to one column that had missing cells.
type Outcome string

const (
	Filled      Outcome = "filled"
	Skipped     Outcome = "skipped"
	Invalid     Outcome = "invalid"
	Unsupported Outcome = "unsupported"
)

// ColumnResult records the handling of a single column.
type ColumnResult struct {
	Column  string
	Outcome Outcome
	Value   string
	Cells   int
	Err     error
}

// Result summarizes a fill pass. A pass always completes; per-column problems
// are recorded here rather than aborting.
type Result struct {
	Columns []ColumnResult
}

// Filled returns the columns that received a value.
func (r *Result) Filled() []string { return r.names(Filled) }

// Skipped returns the columns for which no value was supplied.
func (r *Result) Skipped() []string { return r.names(Skipped) }

// Warnings returns the per-column errors (invalid numeric input, unsupported kinds).
func (r *Result) Warnings() []error {
	var out []error
	for _, c := range r.Columns {
		if c.Err != nil {
			out = append(out, c.Err)
		}
	}
	return out
}

func (r *Result) names(o Outcome) []string {
	var out []string
	for _, c := range r.Columns {
		if c.Outcome == o {
			out = append(out, c.Column)
		}
	}
	return out
}

// Fill visits each column with at least one missing cell, in column order,
// and asks lookup for a single replacement value. Numeric columns require a
// value that parses as a float; text columns take it verbatim. Other kinds are
// left as they are. The dataset is mutated in place.
func Fill(ds *dataset.Dataset, lookup Lookup) (*Result, error) {
	if ds == nil {
		return nil, errors.New("no dataset loaded")
	}
	if lookup == nil {
		return nil, errors.New("nil lookup")
	}
	res := &Result{}
	names := ds.Columns()
	for j, col := range names {
		if !ds.ColumnHasMissing(j) {
			continue
		}
		val, ok := lookup(col)
		if !ok || val == "" {
			res.Columns = append(res.Columns, ColumnResult{Column: col, Outcome: Skipped})
			continue
		}
		cr := ColumnResult{Column: col, Value: val}
		switch ds.Kind(j) {
		case dataset.KindNumeric:
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				cr.Outcome = Invalid
				cr.Err = &InvalidNumericError{Column: col, Input: val, Err: err}
				break
			}
			n, err := ds.FillNumeric(col, f)
			if err != nil {
				cr.Outcome = Invalid
				cr.Err = fmt.Errorf("fill %s: %w", col, err)
				break
			}
			cr.Outcome, cr.Cells = Filled, n
		case dataset.KindText:
			n, err := ds.FillText(col, val)
			if err != nil {
				cr.Outcome = Invalid
				cr.Err = fmt.Errorf("fill %s: %w", col, err)
				break
			}
			cr.Outcome, cr.Cells = Filled, n
		default:
			cr.Outcome = Unsupported
			cr.Err = fmt.Errorf("column '%s' is %s; missing values left unreplaced", col, ds.Kind(j))
		}
		res.Columns = append(res.Columns, cr)
	}
	return res, nil
}

// MapLookup answers from a fixed column→value map.
func MapLookup(values map[string]string) Lookup {
	return func(column string) (string, bool) {
		v, ok := values[column]
		return v, ok
	}
}

// ParseAssignments turns "col=value" pairs into a map. The value may be empty
// or contain '='.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid fill %q (want column=value)", p)
		}
		out[k] = v
	}
	return out, nil
}
