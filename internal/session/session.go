package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
	"github.com/KaramelBytes/dataqc-cli/internal/export"
	"github.com/KaramelBytes/dataqc-cli/internal/impute"
	"github.com/KaramelBytes/dataqc-cli/internal/quality"
	"github.com/KaramelBytes/dataqc-cli/internal/viz"
)

// ErrNoDataset is returned by every operation that needs a dataset when none is loaded.
var ErrNoDataset = errors.New("no dataset loaded")

// Options carries the load, export and chart settings of a session.
type Options struct {
	Load   dataset.Options
	Export export.Options
	Chart  viz.Options
}

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		Load:   dataset.DefaultOptions(),
		Export: export.DefaultOptions(),
		Chart:  viz.DefaultOptions(),
	}
}

// Session is the state of one interactive run: at most one dataset, the chart
// selection, and the options used to load and save. It is not safe for
// concurrent use.
type Session struct {
	ID        string
	StartedAt time.Time

	opts  Options
	ds    *dataset.Dataset
	path  string
	chart viz.Kind
}

// New starts an empty session.
func New(opts Options) *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		opts:      opts,
		chart:     viz.Bar,
	}
}

// Load reads path and makes it the current dataset. On failure the previous
// dataset, if any, stays loaded.
func (s *Session) Load(path string) (*dataset.Dataset, error) {
	ds, err := dataset.Load(path, s.opts.Load)
	if err != nil {
		return nil, err
	}
	s.ds = ds
	s.path = path
	return ds, nil
}

// Loaded reports whether a dataset is present.
func (s *Session) Loaded() bool { return s.ds != nil }

// Path is the file the current dataset was loaded from.
func (s *Session) Path() string { return s.path }

// Dataset returns the current dataset or ErrNoDataset.
func (s *Session) Dataset() (*dataset.Dataset, error) {
	if s.ds == nil {
		return nil, ErrNoDataset
	}
	return s.ds, nil
}

// Cleanliness returns the missing-value and duplicate-row percentages.
func (s *Session) Cleanliness() (missingPct, duplicatePct float64, err error) {
	ds, err := s.Dataset()
	if err != nil {
		return 0, 0, err
	}
	return quality.Cleanliness(ds)
}

// Metrics computes the full quality metrics.
func (s *Session) Metrics() (*quality.Metrics, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return quality.Compute(ds)
}

// Score returns the overall quality score.
func (s *Session) Score() (float64, error) {
	m, err := s.Metrics()
	if err != nil {
		return 0, err
	}
	return m.Score, nil
}

// Report builds metrics plus column profiles.
func (s *Session) Report() (*quality.Report, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return quality.BuildReport(ds)
}

// ReplaceMissing runs one imputation pass over the current dataset.
func (s *Session) ReplaceMissing(lookup impute.Lookup) (*impute.Result, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return impute.Fill(ds, lookup)
}

// Export writes the current dataset to path (xlsx unless the extension says csv/tsv).
func (s *Session) Export(path string) error {
	ds, err := s.Dataset()
	if err != nil {
		return err
	}
	return export.Write(ds, path, s.opts.Export)
}

// SetChartKind changes the chart drawn by Plot.
func (s *Session) SetChartKind(k viz.Kind) { s.chart = k }

// ChartKind returns the current chart selection.
func (s *Session) ChartKind() viz.Kind { return s.chart }

// Plot renders the selected chart into path (.png or .svg).
func (s *Session) Plot(path string) error {
	ds, err := s.Dataset()
	if err != nil {
		return err
	}
	if err := viz.RenderFile(ds, s.chart, path, s.opts.Chart); err != nil {
		return fmt.Errorf("plot %s: %w", s.chart, err)
	}
	return nil
}
