package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseLine converts one "<category> <samples> <value>" line into a Record.
// Any failure is returned as a *ParseError with Line left at zero.
func ParseLine(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) != NumFields {
		return Record{}, &ParseError{Text: text, Err: fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), NumFields)}
	}

	category, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, &ParseError{Text: text, Err: fmt.Errorf("category: %w", err)}
	}
	samples, err := strconv.Atoi(fields[1])
	if err != nil {
		return Record{}, &ParseError{Text: text, Err: fmt.Errorf("sample count: %w", err)}
	}
	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Record{}, &ParseError{Text: text, Err: fmt.Errorf("value: %w", err)}
	}

	return Record{Category: category, SampleCount: samples, Value: value}, nil
}

// ParseRecords reads every line of r. In strict mode the first malformed line
// aborts the whole read and no records are returned.
func ParseRecords(r io.Reader, opts Options) (*ParsedData, error) {
	parsedData := NewParsedData()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		parsedData.NumLines++
		line := scanner.Text()

		rec, err := ParseLine(line)
		if err != nil {
			pe := err.(*ParseError)
			pe.Line = parsedData.NumLines
			if !opts.Lenient {
				return nil, pe
			}
			parsedData.ParseErrors = append(parsedData.ParseErrors, pe)
			continue
		}
		parsedData.Records = append(parsedData.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return parsedData, nil
}

// ParseFile reads the whole file at path and closes it before any line is
// parsed.
func ParseFile(path string, opts Options) (*ParsedData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	content, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	return ParseRecords(bytes.NewReader(content), opts)
}
