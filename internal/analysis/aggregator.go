package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/user/fourier_plot_go/internal/parser"
	"gonum.org/v1/gonum/stat"
)

// Default legend label settings: category 43 is shown as "a = 0.43".
const (
	DefaultLabelName    = "a"
	DefaultLabelDivisor = 100.0
)

// Aggregation groups records by category. It is built in one pass with Add
// (or Ingest) and is read-only afterwards.
type Aggregation struct {
	groups map[int]*CategoryGroup

	LabelName    string
	LabelDivisor float64
}

// NewAggregation returns an empty Aggregation with the default label format.
func NewAggregation() *Aggregation {
	return &Aggregation{
		groups:       make(map[int]*CategoryGroup),
		LabelName:    DefaultLabelName,
		LabelDivisor: DefaultLabelDivisor,
	}
}

// Ingest builds an Aggregation from records in the order given.
func Ingest(records []parser.Record) *Aggregation {
	agg := NewAggregation()
	for _, rec := range records {
		agg.Add(rec)
	}
	return agg
}

// Add appends rec to its category. The first record of a category becomes its
// reference; a later record replaces the reference only when its sample count
// is strictly greater than the stored reference's.
func (a *Aggregation) Add(rec parser.Record) {
	s := Sample{SampleCount: rec.SampleCount, Value: rec.Value}

	group, ok := a.groups[rec.Category]
	if !ok {
		a.groups[rec.Category] = &CategoryGroup{
			Category:  rec.Category,
			Samples:   []Sample{s},
			Reference: s,
		}
		return
	}

	group.Samples = append(group.Samples, s)
	if group.Reference.SampleCount < s.SampleCount {
		group.Reference = s
	}
}

// Len reports the number of distinct categories.
func (a *Aggregation) Len() int { return len(a.groups) }

// Group returns the group for category, if it was ingested.
func (a *Aggregation) Group(category int) (*CategoryGroup, bool) {
	g, ok := a.groups[category]
	return g, ok
}

// OrderedCategories returns every category, largest first.
func (a *Aggregation) OrderedCategories() []int {
	keys := make([]int, 0, len(a.groups))
	for k := range a.groups {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}

// BuildSeries computes the scaled absolute error of every sample of category
// against the category reference, keeping record order.
func (a *Aggregation) BuildSeries(category int) (Series, error) {
	group, ok := a.groups[category]
	if !ok {
		return Series{}, &LookupError{Category: category}
	}

	points := make([]Point, len(group.Samples))
	for i, s := range group.Samples {
		points[i] = Point{
			SampleCount: s.SampleCount,
			ScaledError: math.Abs(s.Value-group.Reference.Value) * ErrorScale,
		}
	}

	return Series{
		Category: category,
		Label:    a.Label(category),
		Points:   points,
	}, nil
}

// AllSeries builds the series of every category in OrderedCategories order.
func (a *Aggregation) AllSeries() []Series {
	categories := a.OrderedCategories()
	series := make([]Series, 0, len(categories))
	for _, c := range categories {
		s, err := a.BuildSeries(c)
		if err != nil { // keys come from the map itself
			panic(fmt.Sprintf("analysis: %v", err))
		}
		series = append(series, s)
	}
	return series
}

// Label renders the legend text of a category, e.g. "a = 0.43".
func (a *Aggregation) Label(category int) string {
	name, divisor := a.LabelName, a.LabelDivisor
	if name == "" {
		name = DefaultLabelName
	}
	if divisor == 0 {
		divisor = DefaultLabelDivisor
	}
	return fmt.Sprintf("%s = %s", name, formatDecimal(float64(category)/divisor))
}

// formatDecimal prints the shortest representation of f that still reads as a
// decimal, so whole numbers keep a trailing ".0".
func formatDecimal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// Summarize returns one Summary per category, largest category first.
func (a *Aggregation) Summarize() []Summary {
	all := a.AllSeries()
	summaries := make([]Summary, 0, len(all))

	for _, series := range all {
		group := a.groups[series.Category]
		sum := Summary{
			Category:   series.Category,
			Label:      series.Label,
			NumRecords: len(group.Samples),
			Reference:  group.Reference,
			MinError:   math.NaN(),
			Order:      math.NaN(),
			RSquared:   math.NaN(),
		}

		var xs, ys []float64
		for _, p := range series.Points {
			if p.ScaledError > sum.MaxError {
				sum.MaxError = p.ScaledError
			}
			if !(p.ScaledError > 0) || math.IsInf(p.ScaledError, 0) || p.SampleCount <= 0 {
				continue
			}
			if math.IsNaN(sum.MinError) || p.ScaledError < sum.MinError {
				sum.MinError = p.ScaledError
			}
			xs = append(xs, math.Log10(float64(p.SampleCount)))
			ys = append(ys, math.Log10(p.ScaledError))
		}

		sum.FitPoints = len(xs)
		if len(xs) >= 2 && !constant(xs) {
			alpha, beta := stat.LinearRegression(xs, ys, nil, false)
			sum.Order = beta
			sum.RSquared = stat.RSquared(xs, ys, nil, alpha, beta)
		}
		summaries = append(summaries, sum)
	}

	return summaries
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
