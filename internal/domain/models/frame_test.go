package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestNewFrameValidates(t *testing.T) {
	_, err := NewFrame([]time.Time{day(1), day(2)}, []string{"High"}, map[string][]float64{"High": {1}})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = NewFrame([]time.Time{day(1)}, []string{"Low"}, map[string][]float64{"High": {1}})
	assert.ErrorIs(t, err, ErrColumnNotFound)

	f, err := NewFrame([]time.Time{day(1)}, []string{"High"}, map[string][]float64{"High": {1}})
	require.NoError(t, err)
	assert.ErrorIs(t, f.AddColumn("High", []float64{2}), ErrDuplicateColumn)
}

func TestFrameCopiesInput(t *testing.T) {
	high := []float64{1, 2}
	f, err := NewFrame([]time.Time{day(1), day(2)}, []string{"High"}, map[string][]float64{"High": high})
	require.NoError(t, err)
	high[0] = 99

	got, err := f.Column("High")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)

	got[1] = 42
	again, _ := f.Column("High")
	assert.Equal(t, 2.0, again[1])
}

func TestJoinOuterSharesAnchorDate(t *testing.T) {
	base, err := NewFrame([]time.Time{day(1), day(2), day(3)}, []string{"High"}, map[string][]float64{"High": {1, 2, 3}})
	require.NoError(t, err)
	ext, err := NewFrame([]time.Time{day(3), day(4)}, []string{"F"}, map[string][]float64{"F": {3, 4}})
	require.NoError(t, err)

	out, err := base.JoinOuter(ext)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	assert.Equal(t, []string{"High", "F"}, out.Columns())

	high, _ := out.Column("High")
	f, _ := out.Column("F")
	assert.Equal(t, []float64{1, 2, 3}, high[:3])
	assert.True(t, math.IsNaN(high[3]))
	assert.True(t, math.IsNaN(f[0]))
	assert.True(t, math.IsNaN(f[1]))
	assert.Equal(t, []float64{3, 4}, f[2:])

	n, err := out.NonEmpty("F")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// the receiver is untouched
	assert.Equal(t, 3, base.Len())
	assert.False(t, base.HasColumn("F"))
}

func TestJoinOuterAppendsWithoutOverlap(t *testing.T) {
	base, _ := NewFrame([]time.Time{day(1), day(2)}, []string{"High"}, map[string][]float64{"High": {1, 2}})
	ext, _ := NewFrame([]time.Time{day(4), day(5)}, []string{"F"}, map[string][]float64{"F": {4, 5}})

	out, err := base.JoinOuter(ext)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	last, err := out.LastDate()
	require.NoError(t, err)
	assert.True(t, last.Equal(day(5)))
}

func TestJoinOuterSharesCalendarDay(t *testing.T) {
	closeAt := func(d int) time.Time { return time.Date(2024, 1, d, 16, 0, 0, 0, time.UTC) }
	base, err := NewFrame([]time.Time{closeAt(1), closeAt(2)}, []string{"High"}, map[string][]float64{"High": {1, 2}})
	require.NoError(t, err)
	ext, err := NewFrame([]time.Time{day(2), day(3)}, []string{"F"}, map[string][]float64{"F": {2, 3}})
	require.NoError(t, err)

	out, err := base.JoinOuter(ext)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	idx := out.Index()
	assert.True(t, idx[1].Equal(closeAt(2)))
	assert.True(t, idx[2].Equal(day(3)))

	f, _ := out.Column("F")
	assert.True(t, math.IsNaN(f[0]))
	assert.Equal(t, []float64{2, 3}, f[1:])
}

func TestJoinOuterRejectsBadInput(t *testing.T) {
	base, _ := NewFrame([]time.Time{day(2), day(3)}, []string{"High"}, map[string][]float64{"High": {1, 2}})

	early, _ := NewFrame([]time.Time{day(1)}, []string{"F"}, map[string][]float64{"F": {1}})
	_, err := base.JoinOuter(early)
	assert.ErrorIs(t, err, ErrUnsortedIndex)

	dup, _ := NewFrame([]time.Time{day(4)}, []string{"High"}, map[string][]float64{"High": {1}})
	_, err = base.JoinOuter(dup)
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestLastDateEmpty(t *testing.T) {
	f, err := NewFrame(nil, nil, nil)
	require.NoError(t, err)
	_, err = f.LastDate()
	assert.ErrorIs(t, err, ErrEmptyFrame)
}

func TestNewFrameRejectsUnsortedIndex(t *testing.T) {
	_, err := NewFrame([]time.Time{day(2), day(1)}, []string{"High"}, map[string][]float64{"High": {1, 2}})
	assert.ErrorIs(t, err, ErrUnsortedIndex)

	_, err = NewFrame([]time.Time{day(1), day(1)}, []string{"High"}, map[string][]float64{"High": {1, 2}})
	assert.ErrorIs(t, err, ErrUnsortedIndex)
}
