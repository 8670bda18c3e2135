package quality

import (
	"errors"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
)

// Score weights. They sum to 1.
const (
	WeightMissing    = 0.4
	WeightDuplicates = 0.3
	WeightTypeIssues = 0.3
)

var (
	// ErrNoDataset is returned when metrics are requested without a dataset.
	ErrNoDataset = errors.New("no dataset loaded")
	// ErrEmptyDataset is returned for a dataset with zero rows or zero columns,
	// where every percentage would divide by zero.
	ErrEmptyDataset = errors.New("dataset has no rows or no columns; quality metrics are undefined")
)

// Metrics is a point-in-time snapshot derived from a dataset.
type Metrics struct {
	Rows             int `json:"rows"`
	Columns          int `json:"columns"`
	MissingCells     int `json:"missing_cells"`
	DuplicateRows    int `json:"duplicate_rows"`
	TypeIssueColumns int `json:"type_issue_columns"`

	MissingPct   float64 `json:"missing_value_percentage"`
	DuplicatePct float64 `json:"duplicate_row_percentage"`
	TypeIssuePct float64 `json:"data_type_issue_percentage"`
	// Score is 100 minus the weighted penalties. It is reported as computed,
	// without clamping.
	Score float64 `json:"overall_score"`
}

// Cleanliness returns the missing-value and duplicate-row percentages.
func Cleanliness(ds *dataset.Dataset) (missingPct, duplicatePct float64, err error) {
	if err := check(ds); err != nil {
		return 0, 0, err
	}
	missingPct = MissingPercentage(ds)
	duplicatePct = DuplicatePercentage(ds)
	return missingPct, duplicatePct, nil
}

// Compute derives every metric and the weighted score.
func Compute(ds *dataset.Dataset) (*Metrics, error) {
	if err := check(ds); err != nil {
		return nil, err
	}
	m := &Metrics{
		Rows:             ds.Rows(),
		Columns:          ds.Cols(),
		MissingCells:     ds.MissingTotal(),
		DuplicateRows:    DuplicateRows(ds),
		TypeIssueColumns: len(TypeIssueColumns(ds)),
	}
	m.MissingPct = float64(m.MissingCells) / float64(m.Rows*m.Columns) * 100
	m.DuplicatePct = float64(m.DuplicateRows) / float64(m.Rows) * 100
	m.TypeIssuePct = float64(m.TypeIssueColumns) / float64(m.Columns) * 100
	m.Score = Score(m.MissingPct, m.DuplicatePct, m.TypeIssuePct)
	return m, nil
}

// Score combines the three percentages into the overall quality score.
func Score(missingPct, duplicatePct, typeIssuePct float64) float64 {
	return 100 - (missingPct*WeightMissing + duplicatePct*WeightDuplicates + typeIssuePct*WeightTypeIssues)
}

// MissingPercentage is missing cells over rows×columns, in percent. The caller
// guarantees a non-empty dataset.
func MissingPercentage(ds *dataset.Dataset) float64 {
	return float64(ds.MissingTotal()) / float64(ds.Rows()*ds.Cols()) * 100
}

// DuplicatePercentage is duplicate rows over all rows, in percent.
func DuplicatePercentage(ds *dataset.Dataset) float64 {
	return float64(DuplicateRows(ds)) / float64(ds.Rows()) * 100
}

// DuplicateRows counts rows identical to an earlier row across all columns.
// The first occurrence is not counted; missing cells compare equal.
func DuplicateRows(ds *dataset.Dataset) int {
	seen := make(map[string]struct{}, ds.Rows())
	dups := 0
	var b strings.Builder
	for i := 0; i < ds.Rows(); i++ {
		b.Reset()
		for j := 0; j < ds.Cols(); j++ {
			if ds.IsMissing(i, j) {
				b.WriteString("\x00")
			} else {
				v := ds.Value(i, j)
				b.WriteString(strconv.Itoa(len(v)))
				b.WriteByte(':')
				b.WriteString(v)
			}
			b.WriteByte('\x1f')
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// TypeIssueColumns lists columns whose values are neither uniformly numeric
// nor uniformly text: text columns where some present cells parse as numbers
// and others do not. Numeric and bool columns are uniform by construction.
func TypeIssueColumns(ds *dataset.Dataset) []string {
	var out []string
	names := ds.Columns()
	for j := 0; j < ds.Cols(); j++ {
		if ds.Kind(j) != dataset.KindText {
			continue
		}
		var numeric, text int
		for i := 0; i < ds.Rows(); i++ {
			if ds.IsMissing(i, j) {
				continue
			}
			if looksNumeric(ds.Value(i, j)) {
				numeric++
			} else {
				text++
			}
		}
		if numeric > 0 && text > 0 {
			out = append(out, names[j])
		}
	}
	return out
}

func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func check(ds *dataset.Dataset) error {
	if ds == nil {
		return ErrNoDataset
	}
	if ds.Rows() == 0 || ds.Cols() == 0 {
		return ErrEmptyDataset
	}
	return nil
}
