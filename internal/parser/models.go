package parser

import (
	"errors"
	"fmt"
)

// NumFields is the number of whitespace-separated fields on every data line:
// category, sample count and the measured value.
const NumFields = 3

// ErrFieldCount is wrapped by a ParseError when a line does not split into
// exactly NumFields tokens.
var ErrFieldCount = errors.New("wrong number of fields")

// Record is a single experiment result, one per input line.
type Record struct {
	Category    int
	SampleCount int
	Value       float64
}

// ParseError describes a line that could not be turned into a Record.
type ParseError struct {
	Line int    // 1-based line number, 0 when parsing a lone line
	Text string // the offending line as read
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("line %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Options controls how ParseRecords treats malformed lines.
type Options struct {
	// Lenient skips malformed lines and records them in ParsedData.ParseErrors
	// instead of aborting on the first one.
	Lenient bool
}

// ParsedData holds every record read from one input, in file order.
type ParsedData struct {
	Records     []Record
	NumLines    int           // lines consumed, including skipped ones
	ParseErrors []*ParseError // only populated in lenient mode
}

// Helper to initialize ParsedData
func NewParsedData() *ParsedData {
	return &ParsedData{
		Records:     make([]Record, 0),
		ParseErrors: make([]*ParseError, 0),
	}
}
