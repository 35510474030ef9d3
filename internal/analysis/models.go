package analysis

import "fmt"

// ErrorScale is the factor applied to every absolute error before plotting.
const ErrorScale = 1e10

// Sample is the (sample count, value) part of a record once its category is
// known.
type Sample struct {
	SampleCount int
	Value       float64
}

// CategoryGroup holds all samples of one category in input order together
// with the reference sample the errors are measured against.
type CategoryGroup struct {
	Category  int
	Samples   []Sample
	Reference Sample
}

// Point is one plotted pair of a Series.
type Point struct {
	SampleCount int
	ScaledError float64 // |value - reference| * ErrorScale
}

// Series is the error curve of one category, in record order.
type Series struct {
	Category int
	Label    string
	Points   []Point
}

// Summary holds per-category figures shown in the report.
type Summary struct {
	Category   int
	Label      string
	NumRecords int
	Reference  Sample
	MinError   float64 // smallest strictly positive scaled error, NaN if none
	MaxError   float64
	// Order is the fitted slope of log10(error) against log10(samples).
	// Monte Carlo style estimators converge with a slope near -0.5.
	Order      float64
	FitPoints  int
	RSquared   float64
}

// LookupError is returned when a category was never ingested.
type LookupError struct {
	Category int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("category %d not found", e.Category)
}
