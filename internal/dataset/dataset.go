package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
	KindBool    Kind = "bool"
)

// missingMarker is how the dataframe spells a missing string cell.
const missingMarker = "NaN"

// Dataset is an ordered set of named, typed columns aligned by row index.
// It is loaded wholesale, mutated in place by fills, and never shared.
type Dataset struct {
	name string
	df   dataframe.DataFrame
	// na holds the tokens read as missing, "" included.
	na []string
	// Warnings collected while loading (ragged rows and similar).
	Warnings []string
}

// Name is the base name of the source file.
func (d *Dataset) Name() string { return d.name }

// Rows returns the number of data rows (header excluded).
func (d *Dataset) Rows() int { return d.df.Nrow() }

// Cols returns the number of columns.
func (d *Dataset) Cols() int { return d.df.Ncol() }

// Columns returns column names in order.
func (d *Dataset) Columns() []string { return d.df.Names() }

// Index returns the position of a column or -1.
func (d *Dataset) Index(col string) int {
	for i, n := range d.df.Names() {
		if n == col {
			return i
		}
	}
	return -1
}

// Kind reports the inferred kind of column j.
func (d *Dataset) Kind(j int) Kind {
	return kindOf(d.df.Types()[j])
}

func kindOf(t series.Type) Kind {
	switch t {
	case series.Int, series.Float:
		return KindNumeric
	case series.Bool:
		return KindBool
	default:
		return KindText
	}
}

func (d *Dataset) col(j int) series.Series {
	return d.df.Col(d.df.Names()[j])
}

// IsMissing reports whether cell (i, j) holds no value.
func (d *Dataset) IsMissing(i, j int) bool {
	return d.df.Elem(i, j).IsNA()
}

// Value formats cell (i, j). Missing cells format as the empty string.
func (d *Dataset) Value(i, j int) string {
	e := d.df.Elem(i, j)
	if e.IsNA() {
		return ""
	}
	switch e.Type() {
	case series.Int:
		n, err := e.Int()
		if err != nil {
			return ""
		}
		return strconv.Itoa(n)
	case series.Float:
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	case series.Bool:
		b, err := e.Bool()
		if err != nil {
			return ""
		}
		return strconv.FormatBool(b)
	default:
		return e.String()
	}
}

// Float returns cell (i, j) as a number when the column is numeric and the cell present.
func (d *Dataset) Float(i, j int) (float64, bool) {
	e := d.df.Elem(i, j)
	if e.IsNA() {
		return 0, false
	}
	switch e.Type() {
	case series.Int, series.Float:
		f := e.Float()
		return f, !math.IsNaN(f)
	}
	return 0, false
}

// Cell returns the typed value of cell (i, j) for serialization: int, float64,
// bool, string, or nil when missing.
func (d *Dataset) Cell(i, j int) any {
	e := d.df.Elem(i, j)
	if e.IsNA() {
		return nil
	}
	switch e.Type() {
	case series.Int:
		if n, err := e.Int(); err == nil {
			return n
		}
		return nil
	case series.Float:
		return e.Float()
	case series.Bool:
		if b, err := e.Bool(); err == nil {
			return b
		}
		return nil
	default:
		return e.String()
	}
}

// Row returns formatted values of row i.
func (d *Dataset) Row(i int) []string {
	out := make([]string, d.Cols())
	for j := range out {
		out[j] = d.Value(i, j)
	}
	return out
}

// Records returns the header followed by every formatted row.
func (d *Dataset) Records() [][]string {
	out := make([][]string, 0, d.Rows()+1)
	out = append(out, d.Columns())
	for i := 0; i < d.Rows(); i++ {
		out = append(out, d.Row(i))
	}
	return out
}

// MissingCounts returns the number of missing cells per column.
func (d *Dataset) MissingCounts() []int {
	counts := make([]int, d.Cols())
	for j := range counts {
		for _, na := range d.col(j).IsNaN() {
			if na {
				counts[j]++
			}
		}
	}
	return counts
}

// MissingTotal returns the number of missing cells in the whole table.
func (d *Dataset) MissingTotal() int {
	total := 0
	for _, c := range d.MissingCounts() {
		total += c
	}
	return total
}

// ColumnHasMissing reports whether column j contains at least one missing cell.
func (d *Dataset) ColumnHasMissing(j int) bool {
	for _, na := range d.col(j).IsNaN() {
		if na {
			return true
		}
	}
	return false
}

// FillNumeric replaces every missing cell of a numeric column with v and
// returns how many cells changed. An integer column receiving a fractional
// value becomes a float column.
func (d *Dataset) FillNumeric(col string, v float64) (int, error) {
	j := d.Index(col)
	if j < 0 {
		return 0, fmt.Errorf("unknown column %q", col)
	}
	s := d.col(j)
	nas := s.IsNaN()
	filled := 0
	var repl series.Series
	switch s.Type() {
	case series.Int:
		if v == math.Trunc(v) && math.Abs(v) <= 1<<53 {
			vals := make([]int, len(nas))
			for i, na := range nas {
				if na {
					vals[i] = int(v)
					filled++
					continue
				}
				vals[i], _ = s.Elem(i).Int()
			}
			repl = series.New(vals, series.Int, col)
			break
		}
		fallthrough
	case series.Float:
		vals := make([]float64, len(nas))
		for i, na := range nas {
			if na {
				vals[i] = v
				filled++
				continue
			}
			vals[i] = s.Elem(i).Float()
		}
		repl = series.New(vals, series.Float, col)
	default:
		return 0, fmt.Errorf("column %q is not numeric", col)
	}
	if err := d.replace(repl); err != nil {
		return 0, err
	}
	return filled, nil
}

// FillText replaces every missing cell of a text column with v verbatim.
// Values that would read back as missing (blank or a missing-value marker)
// are rejected.
func (d *Dataset) FillText(col string, v string) (int, error) {
	j := d.Index(col)
	if j < 0 {
		return 0, fmt.Errorf("unknown column %q", col)
	}
	if t := strings.TrimSpace(v); t == missingMarker || isNAToken(t, d.na) {
		return 0, fmt.Errorf("value %q is reserved for missing cells", v)
	}
	s := d.col(j)
	if s.Type() != series.String {
		return 0, fmt.Errorf("column %q is not text", col)
	}
	nas := s.IsNaN()
	vals := make([]string, len(nas))
	filled := 0
	for i, na := range nas {
		if na {
			vals[i] = v
			filled++
			continue
		}
		vals[i] = s.Elem(i).String()
	}
	if err := d.replace(series.New(vals, series.String, col)); err != nil {
		return 0, err
	}
	return filled, nil
}

func (d *Dataset) replace(s series.Series) error {
	if s.Err != nil {
		return fmt.Errorf("build column %s: %w", s.Name, s.Err)
	}
	next := d.df.Mutate(s)
	if next.Err != nil {
		return fmt.Errorf("replace column %s: %w", s.Name, next.Err)
	}
	d.df = next
	return nil
}

// Equal reports whether a and b hold the same columns and cells. Numeric
// cells compare by value, so an integral float column equals an int column.
func Equal(a, b *Dataset) bool {
	return Diff(a, b) == ""
}

// Diff describes the first difference between a and b, or "" when equal.
func Diff(a, b *Dataset) string {
	if a == nil || b == nil {
		if a == b {
			return ""
		}
		return "one dataset is nil"
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return fmt.Sprintf("shape %dx%d != %dx%d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	an, bn := a.Columns(), b.Columns()
	for j := range an {
		if an[j] != bn[j] {
			return fmt.Sprintf("column %d name %q != %q", j, an[j], bn[j])
		}
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			am, bm := a.IsMissing(i, j), b.IsMissing(i, j)
			if am || bm {
				if am != bm {
					return fmt.Sprintf("cell (%d,%s) missing mismatch", i, an[j])
				}
				continue
			}
			af, aok := a.Float(i, j)
			bf, bok := b.Float(i, j)
			if aok && bok {
				if !nearlyEqual(af, bf) {
					return fmt.Sprintf("cell (%d,%s) %v != %v", i, an[j], af, bf)
				}
				continue
			}
			if av, bv := a.Value(i, j), b.Value(i, j); av != bv {
				return fmt.Sprintf("cell (%d,%s) %q != %q", i, an[j], av, bv)
			}
		}
	}
	return ""
}

func nearlyEqual(x, y float64) bool {
	if x == y {
		return true
	}
	diff := math.Abs(x - y)
	scale := math.Max(math.Abs(x), math.Abs(y))
	return diff <= 1e-12*math.Max(scale, 1)
}
