package viz

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/dataqc-cli/internal/dataset"
	"github.com/KaramelBytes/dataqc-cli/internal/utils"
)

// Kind selects the chart drawn by Render.
type Kind int

const (
	Bar Kind = iota
	Line
	Scatter
)

var kindNames = []string{"bar", "line", "scatter"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts bar, line or scatter in any case.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return Bar, fmt.Errorf("unknown chart type %q (use bar, line or scatter)", s)
}

// Format is the image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

var (
	// ErrScatterColumns means the first two columns cannot be plotted against each other.
	ErrScatterColumns = errors.New("scatter plot needs at least two columns with numeric values in the first two")
	// ErrNoColumns is returned for a dataset without columns.
	ErrNoColumns = errors.New("dataset has no columns to plot")
)

// Options sizes the output image in pixels.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns a 1000x500 canvas.
func DefaultOptions() Options { return Options{Width: 1000, Height: 500} }

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 1000
	}
	if h <= 0 {
		h = 500
	}
	return w, h
}

// pointStyle draws dots only, with no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// Render draws ds as the given kind of chart. Bar and line charts show the
// missing-value count per column; scatter plots the first column against the
// second.
func Render(ds *dataset.Dataset, kind Kind, w io.Writer, format Format, opt Options) error {
	if ds == nil {
		return errors.New("no dataset")
	}
	if ds.Cols() == 0 {
		return ErrNoColumns
	}
	rp, err := provider(format)
	if err != nil {
		return err
	}
	switch kind {
	case Bar:
		return missingBar(ds, opt).Render(rp, w)
	case Line:
		return missingLine(ds, opt).Render(rp, w)
	case Scatter:
		c, err := scatter(ds, opt)
		if err != nil {
			return err
		}
		return c.Render(rp, w)
	default:
		return fmt.Errorf("unsupported chart kind %v", kind)
	}
}

// RenderFile renders into path; the extension picks PNG or SVG. The image is
// rendered fully in memory before the file is replaced.
func RenderFile(ds *dataset.Dataset, kind Kind, path string, opt Options) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Render(ds, kind, &buf, format, opt); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write chart %s: %w", path, err)
	}
	return nil
}

// FormatFor maps a file extension to an image format.
func FormatFor(path string) (Format, error) {
	switch utils.Ext(path) {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	default:
		return "", fmt.Errorf("unsupported chart file %q (use .png or .svg)", path)
	}
}

func provider(f Format) (chart.RendererProvider, error) {
	switch f {
	case PNG, "":
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", f)
	}
}

func maxCount(counts []int) float64 {
	m := 1
	for _, c := range counts {
		if c > m {
			m = c
		}
	}
	return float64(m)
}

func missingBar(ds *dataset.Dataset, opt Options) chart.BarChart {
	counts := ds.MissingCounts()
	bars := make([]chart.Value, len(counts))
	for j, name := range ds.Columns() {
		bars[j] = chart.Value{Label: name, Value: float64(counts[j])}
	}
	w, h := opt.size()
	barWidth := (w - 120) / (2 * len(bars))
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}
	return chart.BarChart{
		Title:      "Missing Values by Column",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      w,
		Height:     h,
		BarWidth:   barWidth,
		YAxis: chart.YAxis{
			Name:  "missing",
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount(counts)},
		},
		Bars: bars,
	}
}

func missingLine(ds *dataset.Dataset, opt Options) chart.Chart {
	counts := ds.MissingCounts()
	names := ds.Columns()
	xs := make([]float64, len(counts))
	ys := make([]float64, len(counts))
	ticks := make([]chart.Tick, len(counts))
	for j := range counts {
		xs[j] = float64(j)
		ys[j] = float64(counts[j])
		ticks[j] = chart.Tick{Value: float64(j), Label: names[j]}
	}
	// go-chart rejects a zero-width x range
	maxX := float64(len(counts) - 1)
	if maxX < 1 {
		maxX = 1
	}
	w, h := opt.size()
	return chart.Chart{
		Title:      "Missing Values by Column",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      w,
		Height:     h,
		XAxis:      chart.XAxis{Name: "column", Ticks: ticks, Range: &chart.ContinuousRange{Min: 0, Max: maxX}},
		YAxis:      chart.YAxis{Name: "missing", Range: &chart.ContinuousRange{Min: 0, Max: maxCount(counts)}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "missing",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2, DotWidth: 3, DotColor: chart.ColorBlue},
			},
		},
	}
}

func scatter(ds *dataset.Dataset, opt Options) (chart.Chart, error) {
	if ds.Cols() < 2 || ds.Kind(0) != dataset.KindNumeric || ds.Kind(1) != dataset.KindNumeric {
		return chart.Chart{}, ErrScatterColumns
	}
	var xs, ys []float64
	for i := 0; i < ds.Rows(); i++ {
		x, okx := ds.Float(i, 0)
		y, oky := ds.Float(i, 1)
		if !okx || !oky || !finite(x) || !finite(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return chart.Chart{}, fmt.Errorf("%w: no rows with both values present", ErrScatterColumns)
	}
	names := ds.Columns()
	w, h := opt.size()
	return chart.Chart{
		Title:      fmt.Sprintf("%s vs %s", names[1], names[0]),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      w,
		Height:     h,
		XAxis:      chart.XAxis{Name: names[0], Range: span(xs)},
		YAxis:      chart.YAxis{Name: names[1], Range: span(ys)},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: names[1], XValues: xs, YValues: ys, Style: pointStyle(chart.ColorBlue)},
		},
	}, nil
}

func finite(v float64) bool { return !math.IsInf(v, 0) && !math.IsNaN(v) }

// span returns a non-degenerate range covering vs.
func span(vs []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi <= lo {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
