package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
)

// ColumnProfile captures inferred kind and statistics per column.
type ColumnProfile struct {
	Name      string       `json:"name"`
	Kind      dataset.Kind `json:"kind"`
	NonNull   int          `json:"non_null"`
	Missing   int          `json:"missing"`
	Unique    int          `json:"unique"`
	TypeIssue bool         `json:"type_issue,omitempty"`
	// Numeric stats over finite values; nil when there are none.
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Mean      *float64 `json:"mean,omitempty"`
	Median    *float64 `json:"median,omitempty"`
	Std       *float64 `json:"std,omitempty"`
	NonFinite int      `json:"non_finite,omitempty"`
	// Text top values
	TopValues []CategoryCount `json:"top_values,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Report is a markdown- and JSON-friendly quality summary of a dataset.
type Report struct {
	Name     string          `json:"name"`
	Metrics  *Metrics        `json:"metrics"`
	Cols     []ColumnProfile `json:"columns"`
	Warnings []string        `json:"warnings,omitempty"`
}

// BuildReport computes metrics and per-column profiles.
func BuildReport(ds *dataset.Dataset) (*Report, error) {
	m, err := Compute(ds)
	if err != nil {
		return nil, err
	}
	rep := &Report{Name: ds.Name(), Metrics: m, Cols: Profile(ds)}
	rep.Warnings = append(rep.Warnings, ds.Warnings...)
	return rep, nil
}

// Profile summarizes each column. Numeric columns get descriptive statistics;
// text columns get their most frequent values.
func Profile(ds *dataset.Dataset) []ColumnProfile {
	issues := map[string]bool{}
	for _, n := range TypeIssueColumns(ds) {
		issues[n] = true
	}
	names := ds.Columns()
	out := make([]ColumnProfile, 0, ds.Cols())
	for j := 0; j < ds.Cols(); j++ {
		p := ColumnProfile{Name: names[j], Kind: ds.Kind(j), TypeIssue: issues[names[j]]}
		cats := map[string]int{}
		var nums []float64
		for i := 0; i < ds.Rows(); i++ {
			if ds.IsMissing(i, j) {
				p.Missing++
				continue
			}
			p.NonNull++
			v := ds.Value(i, j)
			cats[v]++
			if f, ok := ds.Float(i, j); ok {
				if math.IsInf(f, 0) || math.IsNaN(f) {
					p.NonFinite++
					continue
				}
				nums = append(nums, f)
			}
		}
		p.Unique = len(cats)
		if p.Kind == dataset.KindNumeric && len(nums) > 0 {
			p.Min = stat(stats.Min(nums))
			p.Max = stat(stats.Max(nums))
			p.Mean = stat(stats.Mean(nums))
			p.Median = stat(stats.Median(nums))
			if len(nums) > 1 {
				p.Std = stat(stats.StandardDeviationSample(nums))
			}
		} else if len(cats) > 0 {
			tops := make([]CategoryCount, 0, len(cats))
			for k, v := range cats {
				tops = append(tops, CategoryCount{Value: k, Count: v})
			}
			sort.Slice(tops, func(a, b int) bool {
				if tops[a].Count == tops[b].Count {
					return tops[a].Value < tops[b].Value
				}
				return tops[a].Count > tops[b].Count
			})
			if len(tops) > 5 {
				tops = tops[:5]
			}
			p.TopValues = tops
		}
		out = append(out, p)
	}
	return out
}

func stat(v float64, err error) *float64 {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// CleanlinessText renders the two cleanliness percentages.
func CleanlinessText(missingPct, duplicatePct float64) string {
	return fmt.Sprintf("Missing Values Percentage: %.2f%%\nDuplicate Rows Percentage: %.2f%%", missingPct, duplicatePct)
}

// ScoreText renders the overall score line.
func ScoreText(score float64) string {
	return fmt.Sprintf("Overall Quality Score: %.2f%%", score)
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET QUALITY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	m := r.Metrics
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", m.Rows, m.Columns))

	b.WriteString("[METRICS]\n")
	b.WriteString(fmt.Sprintf("- missing values: %.2f%% (%d cells)\n", m.MissingPct, m.MissingCells))
	b.WriteString(fmt.Sprintf("- duplicate rows: %.2f%% (%d rows)\n", m.DuplicatePct, m.DuplicateRows))
	b.WriteString(fmt.Sprintf("- data type issues: %.2f%% (%d columns)\n", m.TypeIssuePct, m.TypeIssueColumns))
	b.WriteString(fmt.Sprintf("- %s\n\n", ScoreText(m.Score)))

	b.WriteString("[COLUMNS]\n")
	tw := tablewriter.NewWriter(&b)
	tw.SetHeader([]string{"Column", "Kind", "Non-null", "Missing", "Unique", "Summary"})
	tw.SetAutoWrapText(false)
	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	for _, c := range r.Cols {
		tw.Append([]string{
			safeName(c.Name),
			string(c.Kind),
			fmt.Sprint(c.NonNull),
			fmt.Sprint(c.Missing),
			fmt.Sprint(c.Unique),
			c.summary(),
		})
	}
	tw.Render()

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c ColumnProfile) summary() string {
	var s string
	switch {
	case c.Kind == dataset.KindNumeric && c.Mean != nil:
		s = fmt.Sprintf("min %s, max %s, mean %s, median %s, std %s",
			fmtStat(c.Min), fmtStat(c.Max), fmtStat(c.Mean), fmtStat(c.Median), fmtStat(c.Std))
		if c.NonFinite > 0 {
			s += fmt.Sprintf(" (%d non-finite excluded)", c.NonFinite)
		}
	case len(c.TopValues) > 0:
		parts := make([]string, len(c.TopValues))
		for i, kv := range c.TopValues {
			parts[i] = fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count)
		}
		s = "top: " + strings.Join(parts, ", ")
	}
	if c.TypeIssue {
		if s != "" {
			s += "; "
		}
		s += "mixed numeric/text values"
	}
	return s
}

func fmtStat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4g", *v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}
