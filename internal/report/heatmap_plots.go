package report

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"

	"github.com/user/fourier_plot_go/internal/analysis"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HeatmapOptions controls CreateErrorHeatmap.
type HeatmapOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	// MaxXTicks caps the number of labeled sample-count columns.
	MaxXTicks int
}

// DefaultHeatmapOptions returns the settings used by the command line tool.
func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{
		Title:     "log10(Absolute Error ×10^10)",
		Width:     vg.Points(800),
		Height:    vg.Points(400),
		MaxXTicks: 10,
	}
}

// errorGrid is a plotter.GridXYZ over (sample count column, category row).
// Columns and rows are addressed by index so uneven sample counts still get
// equally wide cells.
type errorGrid struct {
	samples []int
	labels  []string
	z       [][]float64 // z[row][col]
}

func (g *errorGrid) Dims() (c, r int)   { return len(g.samples), len(g.labels) }
func (g *errorGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g *errorGrid) X(c int) float64    { return float64(c) }
func (g *errorGrid) Y(r int) float64    { return float64(r) }

// newErrorGrid lays series out with the largest category in the top row.
// Repeated sample counts within a series keep the last value seen.
func newErrorGrid(series []analysis.Series) *errorGrid {
	seen := make(map[int]bool)
	for _, s := range series {
		for _, p := range s.Points {
			seen[p.SampleCount] = true
		}
	}
	samples := make([]int, 0, len(seen))
	for n := range seen {
		samples = append(samples, n)
	}
	sort.Ints(samples)

	col := make(map[int]int, len(samples))
	for i, n := range samples {
		col[n] = i
	}

	g := &errorGrid{samples: samples}
	// series come largest first; row 0 is drawn at the bottom
	for i := len(series) - 1; i >= 0; i-- {
		row := make([]float64, len(samples))
		for c := range row {
			row[c] = math.NaN()
		}
		for _, p := range series[i].Points {
			if p.ScaledError > 0 && !math.IsInf(p.ScaledError, 0) {
				row[col[p.SampleCount]] = math.Log10(p.ScaledError)
			}
		}
		g.labels = append(g.labels, series[i].Label)
		g.z = append(g.z, row)
	}
	return g
}

// valueRange returns the smallest and largest finite cell values.
func (g *errorGrid) valueRange() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range g.z {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
			ok = true
		}
	}
	return min, max, ok
}

// CreateErrorHeatmap renders the scaled errors of all series as a
// category × sample-count heatmap and returns it as PNG bytes.
func CreateErrorHeatmap(series []analysis.Series, opts HeatmapOptions) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series for heatmap: %w", ErrNothingToPlot)
	}

	grid := newErrorGrid(series)
	zMin, zMax, ok := grid.valueRange()
	if !ok {
		return nil, fmt.Errorf("heatmap: %w", ErrNothingToPlot)
	}
	if zMin == zMax {
		zMax = zMin + 1
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Samples"
	p.Y.Label.Text = "Category"

	numCols, numRows := grid.Dims()

	yTicks := make([]plot.Tick, numRows)
	for i, label := range grid.labels {
		yTicks[i] = plot.Tick{Value: float64(i), Label: label}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(numRows) - 0.5

	step := 1
	if opts.MaxXTicks > 0 && numCols > opts.MaxXTicks {
		step = (numCols + opts.MaxXTicks - 1) / opts.MaxXTicks
	}
	var xTicks []plot.Tick
	for c := 0; c < numCols; c += step {
		xTicks = append(xTicks, plot.Tick{Value: float64(c), Label: strconv.Itoa(grid.samples[c])})
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.X.Min = -0.5
	p.X.Max = float64(numCols) - 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min = zMin
	hm.Max = zMax
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		def := DefaultHeatmapOptions()
		width, height = def.Width, def.Height
	}
	return RenderPNG(p, width, height)
}
