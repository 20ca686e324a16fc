package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrLengthMismatch  = errors.New("column length does not match index")
	ErrEmptyFrame      = errors.New("frame has no rows")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrUnsortedIndex   = errors.New("index is not strictly ascending")
)

// Frame is a date-indexed table of float64 columns. Missing cells hold NaN.
type Frame struct {
	index   []time.Time
	columns []string
	values  map[string][]float64
}

// NewFrame builds a Frame from an index and columns given in order.
// Slices are copied.
func NewFrame(index []time.Time, columns []string, values map[string][]float64) (*Frame, error) {
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return nil, fmt.Errorf("%w: %s at row %d", ErrUnsortedIndex, index[i].Format(time.RFC3339), i)
		}
	}
	f := &Frame{
		index:   append([]time.Time(nil), index...),
		columns: make([]string, 0, len(columns)),
		values:  make(map[string][]float64, len(columns)),
	}
	for _, name := range columns {
		col, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		if err := f.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddColumn appends a copy of col under name.
func (f *Frame) AddColumn(name string, col []float64) error {
	if _, exists := f.values[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	if len(col) != len(f.index) {
		return fmt.Errorf("%w: %s has %d values, index has %d", ErrLengthMismatch, name, len(col), len(f.index))
	}
	f.columns = append(f.columns, name)
	f.values[name] = append([]float64(nil), col...)
	return nil
}

func (f *Frame) Len() int { return len(f.index) }

// Index returns a copy of the date index.
func (f *Frame) Index() []time.Time { return append([]time.Time(nil), f.index...) }

// Columns returns column names in order.
func (f *Frame) Columns() []string { return append([]string(nil), f.columns...) }

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	col, ok := f.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return append([]float64(nil), col...), nil
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.values[name]
	return ok
}

// LastDate returns the final index entry.
func (f *Frame) LastDate() (time.Time, error) {
	if len(f.index) == 0 {
		return time.Time{}, ErrEmptyFrame
	}
	return f.index[len(f.index)-1], nil
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		index:   append([]time.Time(nil), f.index...),
		columns: append([]string(nil), f.columns...),
		values:  make(map[string][]float64, len(f.values)),
	}
	for k, v := range f.values {
		out.values[k] = append([]float64(nil), v...)
	}
	return out
}

// JoinOuter returns a new frame holding every row of f followed by the rows of
// other whose dates are past f's last date. other's columns are added to the
// result; a leading other row on the same calendar day as f's last date
// shares that row and keeps f's timestamp.
// Cells without a value are NaN. Both frames must be ascending and other's
// columns must not collide with f's.
func (f *Frame) JoinOuter(other *Frame) (*Frame, error) {
	for _, name := range other.columns {
		if f.HasColumn(name) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
	}

	out := f.Clone()
	start := 0
	shared := -1
	if len(f.index) > 0 && len(other.index) > 0 && sameDay(other.index[0], f.index[len(f.index)-1]) {
		shared = len(f.index) - 1
		start = 1
	}

	var last time.Time
	if len(f.index) > 0 {
		last = f.index[len(f.index)-1]
	}
	appended := 0
	for i := start; i < len(other.index); i++ {
		if len(f.index) > 0 && !other.index[i].After(last) {
			return nil, fmt.Errorf("%w: join row %s does not follow %s", ErrUnsortedIndex, other.index[i].Format(time.RFC3339), last.Format(time.RFC3339))
		}
		out.index = append(out.index, other.index[i])
		appended++
	}
	for _, name := range f.columns {
		out.values[name] = append(out.values[name], nanSlice(appended)...)
	}

	for _, name := range other.columns {
		src := other.values[name]
		col := nanSlice(len(f.index))
		if shared >= 0 {
			col[shared] = src[0]
		}
		col = append(col, src[start:]...)
		out.columns = append(out.columns, name)
		out.values[name] = col
	}
	return out, nil
}

// NonEmpty counts the non-NaN cells of a column.
func (f *Frame) NonEmpty(name string) (int, error) {
	col, ok := f.values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	n := 0
	for _, v := range col {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n, nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// sameDay reports whether a falls on b's calendar date in b's location.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
