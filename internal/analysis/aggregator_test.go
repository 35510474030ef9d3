package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/fourier_plot_go/internal/parser"
)

func rec(category, samples int, value float64) parser.Record {
	return parser.Record{Category: category, SampleCount: samples, Value: value}
}

func TestScenarioFromThreeLines(t *testing.T) {
	data, err := parser.ParseRecords(strings.NewReader("10 100 0.5\n10 200 0.6\n20 50 1.0\n"), parser.Options{})
	require.NoError(t, err)

	agg := Ingest(data.Records)

	g10, ok := agg.Group(10)
	require.True(t, ok)
	assert.Equal(t, Sample{SampleCount: 200, Value: 0.6}, g10.Reference)

	g20, ok := agg.Group(20)
	require.True(t, ok)
	assert.Equal(t, Sample{SampleCount: 50, Value: 1.0}, g20.Reference)

	s10, err := agg.BuildSeries(10)
	require.NoError(t, err)
	require.Len(t, s10.Points, 2)
	assert.Equal(t, 100, s10.Points[0].SampleCount)
	assert.InDelta(t, 1.0e9, s10.Points[0].ScaledError, 1e-3)
	assert.Equal(t, Point{SampleCount: 200, ScaledError: 0}, s10.Points[1])

	s20, err := agg.BuildSeries(20)
	require.NoError(t, err)
	assert.Equal(t, []Point{{SampleCount: 50, ScaledError: 0}}, s20.Points)

	assert.Equal(t, []int{20, 10}, agg.OrderedCategories())
}

func TestGroupingCountsMatchInput(t *testing.T) {
	records := []parser.Record{
		rec(1, 10, 0.1), rec(2, 10, 0.2), rec(1, 20, 0.11),
		rec(3, 5, 0.3), rec(1, 40, 0.111), rec(2, 20, 0.22),
	}
	want := map[int]int{}
	for _, r := range records {
		want[r.Category]++
	}

	agg := Ingest(records)
	assert.Equal(t, len(want), agg.Len())
	for c, n := range want {
		g, ok := agg.Group(c)
		require.True(t, ok)
		assert.Len(t, g.Samples, n, "category %d", c)
	}
}

func TestSeriesKeepsRecordOrder(t *testing.T) {
	agg := Ingest([]parser.Record{
		rec(7, 1000, 1.0), rec(7, 10, 1.5), rec(7, 100, 1.25), rec(7, 10, 0.75),
	})

	s, err := agg.BuildSeries(7)
	require.NoError(t, err)

	var counts []int
	for _, p := range s.Points {
		counts = append(counts, p.SampleCount)
	}
	assert.Equal(t, []int{1000, 10, 100, 10}, counts)
}

func TestReferencePolicy(t *testing.T) {
	tests := []struct {
		name    string
		records []parser.Record
		want    Sample
	}{
		{
			name:    "increasing counts track the latest",
			records: []parser.Record{rec(1, 10, 1), rec(1, 100, 2), rec(1, 1000, 3)},
			want:    Sample{SampleCount: 1000, Value: 3},
		},
		{
			name:    "smaller later count does not replace",
			records: []parser.Record{rec(1, 50, 1), rec(1, 200, 2), rec(1, 100, 3)},
			want:    Sample{SampleCount: 200, Value: 2},
		},
		{
			name:    "ties keep the first seen",
			records: []parser.Record{rec(1, 300, 1), rec(1, 50, 2), rec(1, 300, 3)},
			want:    Sample{SampleCount: 300, Value: 1},
		},
		{
			name:    "dip then higher",
			records: []parser.Record{rec(1, 200, 1), rec(1, 50, 2), rec(1, 300, 3)},
			want:    Sample{SampleCount: 300, Value: 3},
		},
		{
			name:    "single record",
			records: []parser.Record{rec(1, 5, 9)},
			want:    Sample{SampleCount: 5, Value: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := Ingest(tt.records)
			g, ok := agg.Group(1)
			require.True(t, ok)
			assert.Equal(t, tt.want, g.Reference)
		})
	}
}

func TestReferenceAfterEachRecord(t *testing.T) {
	records := []parser.Record{rec(4, 20, 0.2), rec(4, 10, 0.1), rec(4, 40, 0.4), rec(4, 40, 0.41), rec(4, 30, 0.3)}
	want := []Sample{{20, 0.2}, {20, 0.2}, {40, 0.4}, {40, 0.4}, {40, 0.4}}

	agg := NewAggregation()
	for i, r := range records {
		agg.Add(r)
		g, _ := agg.Group(4)
		assert.Equal(t, want[i], g.Reference, "after record %d", i)
	}
}

func TestErrorScaling(t *testing.T) {
	agg := Ingest([]parser.Record{
		rec(43, 10, 0.43), rec(43, 100, 0.4343), rec(43, 1000, 0.434345), rec(43, 10000, 0.43434545937892),
	})

	s, err := agg.BuildSeries(43)
	require.NoError(t, err)

	ref := 0.43434545937892
	for i, v := range []float64{0.43, 0.4343, 0.434345, ref} {
		assert.Equal(t, math.Abs(v-ref)*1e10, s.Points[i].ScaledError)
	}
}

func TestBuildSeriesUnknownCategory(t *testing.T) {
	agg := Ingest([]parser.Record{rec(1, 1, 1)})

	_, err := agg.BuildSeries(2)
	require.Error(t, err)

	var le *LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Category)
}

func TestOrderedCategoriesDescendingUnique(t *testing.T) {
	agg := Ingest([]parser.Record{
		rec(5, 1, 0), rec(-3, 1, 0), rec(43, 1, 0), rec(5, 2, 0), rec(100, 1, 0), rec(0, 1, 0),
	})
	assert.Equal(t, []int{100, 43, 5, 0, -3}, agg.OrderedCategories())

	assert.Empty(t, NewAggregation().OrderedCategories())
}

func TestAllSeriesFollowsCategoryOrder(t *testing.T) {
	agg := Ingest([]parser.Record{rec(10, 1, 0), rec(30, 1, 0), rec(20, 1, 0)})

	var got []int
	for _, s := range agg.AllSeries() {
		got = append(got, s.Category)
	}
	assert.Equal(t, []int{30, 20, 10}, got)
}

func TestLabel(t *testing.T) {
	agg := NewAggregation()
	assert.Equal(t, "a = 0.43", agg.Label(43))
	assert.Equal(t, "a = 1.0", agg.Label(100))
	assert.Equal(t, "a = 0.0", agg.Label(0))
	assert.Equal(t, "a = -0.05", agg.Label(-5))
	assert.Equal(t, "a = 2.5", agg.Label(250))

	agg.LabelName = "alpha"
	agg.LabelDivisor = 10
	assert.Equal(t, "alpha = 4.3", agg.Label(43))
}

func TestSummarize(t *testing.T) {
	// error falls by a factor of ten for every hundredfold increase in samples
	agg := Ingest([]parser.Record{
		rec(50, 100, 1.0+1e-11), rec(50, 10000, 1.0+1e-12), rec(50, 1000000, 1.0),
		rec(10, 1, 3.0),
	})

	sums := agg.Summarize()
	require.Len(t, sums, 2)

	s := sums[0]
	assert.Equal(t, 50, s.Category)
	assert.Equal(t, "a = 0.5", s.Label)
	assert.Equal(t, 3, s.NumRecords)
	assert.Equal(t, Sample{SampleCount: 1000000, Value: 1.0}, s.Reference)
	assert.Equal(t, 2, s.FitPoints)
	assert.InDelta(t, -0.5, s.Order, 0.05)
	assert.InDelta(t, 0.1, s.MaxError, 0.01)
	assert.InDelta(t, 0.01, s.MinError, 0.001)

	single := sums[1]
	assert.Equal(t, 10, single.Category)
	assert.Equal(t, 0, single.FitPoints)
	assert.True(t, math.IsNaN(single.Order))
	assert.True(t, math.IsNaN(single.MinError))
	assert.Equal(t, 0.0, single.MaxError)
}
