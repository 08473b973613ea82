package ml

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrSchemaMismatch marks feature sets that do not match the model's
// training-time schema. Check with errors.Is.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

// ErrIngest marks malformed or unreadable tabular input. Nothing is
// partially ingested when it is returned.
var ErrIngest = errors.New("ingest failure")

// SchemaMismatchError reports which required feature columns are
// missing from an input table or vector.
type SchemaMismatchError struct {
	Required []string
	Missing  []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("feature schema mismatch: missing columns [%s], required columns [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Required, ", "))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// Frame is a column-addressable table of string cells, the ingestion
// form of externally supplied tabular data. Cells are kept verbatim so
// a scored table round-trips with its original columns and row order
// intact.
type Frame struct {
	Header []string
	Rows   [][]string
}

// ReadFrame parses CSV input into a Frame. The first record is the
// header. Ragged or empty input is rejected as an ingest failure.
func ReadFrame(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIngest, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: input has no header row", ErrIngest)
	}
	return &Frame{Header: records[0], Rows: records[1:]}, nil
}

// ColumnIndex returns the position of the named column.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	for i, h := range f.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// FloatColumn parses the named column as float64 values, one per row.
func (f *Frame) FloatColumn(name string) ([]float64, error) {
	idx, ok := f.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrIngest, name)
	}
	values := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %v", ErrIngest, name, i, err)
		}
		values[i] = v
	}
	return values, nil
}

// AppendColumn adds a new column at the end of the header, preserving
// all existing columns and row order.
func (f *Frame) AppendColumn(name string, values []float64) error {
	if len(values) != len(f.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(f.Rows))
	}
	if _, exists := f.ColumnIndex(name); exists {
		return fmt.Errorf("column %q already present", name)
	}
	f.Header = append(f.Header, name)
	for i := range f.Rows {
		f.Rows[i] = append(f.Rows[i], strconv.FormatFloat(values[i], 'f', 6, 64))
	}
	return nil
}

// Write emits the frame as CSV, header first.
func (f *Frame) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range f.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
