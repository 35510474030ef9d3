package report

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/user/fourier_plot_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNothingToPlot is returned when no point of any series can be drawn on
// the configured axes.
var ErrNothingToPlot = errors.New("no plottable points")

// PlotOptions controls the look of the error plot.
type PlotOptions struct {
	Title  string
	XLabel string
	YLabel string
	LogX   bool
	LogY   bool
	Grid   bool
	// Legend corner. Both false puts it at the lower right.
	LegendTop  bool
	LegendLeft bool
	LineWidth  vg.Length
}

// DefaultPlotOptions reproduces the classic convergence figure: log-log axes,
// grid and a lower-right legend.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		XLabel:    "Samples",
		YLabel:    "Absolute Error ×10^10",
		LogX:      true,
		LogY:      true,
		Grid:      true,
		LineWidth: vg.Points(1),
	}
}

// NewErrorPlot draws one labeled line per series, in the order given.
// Points that cannot appear on a log axis are left out of the drawn line;
// a series with none left still gets its legend entry.
func NewErrorPlot(series []analysis.Series, opts PlotOptions) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to plot: %w", ErrNothingToPlot)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	if opts.Grid {
		p.Add(plotter.NewGrid())
	}

	total := 0
	for i, s := range series {
		pts := drawablePoints(s.Points, opts.LogX, opts.LogY)

		line := &plotter.Line{LineStyle: plotter.DefaultLineStyle}
		if len(pts) > 0 {
			var err error
			line, err = plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("failed to create line for %s: %w", s.Label, err)
			}
			p.Add(line)
			total += len(pts)
		}
		line.Color = plotutil.Color(i)
		if opts.LineWidth > 0 {
			line.LineStyle.Width = opts.LineWidth
		}
		p.Legend.Add(s.Label, line)
	}
	if total == 0 {
		return nil, ErrNothingToPlot
	}

	if opts.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		widenLogRange(&p.X)
	}
	if opts.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		widenLogRange(&p.Y)
	}

	p.Legend.Top = opts.LegendTop
	p.Legend.Left = opts.LegendLeft

	return p, nil
}

// drawablePoints converts series points to plotter.XYs, dropping those a log
// axis cannot show. The source slice is not modified.
func drawablePoints(points []analysis.Point, logX, logY bool) plotter.XYs {
	pts := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		x, y := float64(pt.SampleCount), pt.ScaledError
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if (logX && x <= 0) || (logY && y <= 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}

// widenLogRange opens a degenerate axis range by a decade on each side. The
// default padding of ±1 could otherwise reach zero on a log scale.
func widenLogRange(a *plot.Axis) {
	if a.Min == a.Max {
		a.Min /= 10
		a.Max *= 10
	}
}

// RenderPNG encodes p as a PNG image of the given size.
func RenderPNG(p *plot.Plot, width, height vg.Length) ([]byte, error) {
	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePlot writes p to path; the image format follows the file extension
// (png, svg, pdf, eps, jpg, tif).
func SavePlot(p *plot.Plot, path string, width, height vg.Length) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save plot to %s: %w", path, err)
	}
	return nil
}
