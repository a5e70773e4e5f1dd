package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		names []string
		cols  [][]float64
		err   error
	}{
		"no columns": {
			err: ErrNoColumns,
		},
		"names and columns mismatch": {
			names: []string{"a", "b"},
			cols:  [][]float64{{1}},
			err:   ErrColumnLenMismatch,
		},
		"duplicate names": {
			names: []string{"a", "a"},
			cols:  [][]float64{{1}, {2}},
			err:   ErrDuplicateColumn,
		},
		"ragged columns": {
			names: []string{"a", "b"},
			cols:  [][]float64{{1, 2}, {3}},
			err:   ErrColumnLenMismatch,
		},
		"valid": {
			names: []string{"a", "b"},
			cols:  [][]float64{{1, 2}, {3, 4}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tbl, err := New(td.names, td.cols)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.names, tbl.Names())
			assert.Equal(t, len(td.cols[0]), tbl.NumRows())
			assert.Equal(t, len(td.cols), tbl.NumCols())
		})
	}
}

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"x1", "x2", "weight"},
		[][]float64{
			{1, 2, 3, 4},
			{10, 20, 30, 40},
			{5, 6, 7, 8},
		},
	)
	require.Nil(t, err)
	return tbl
}

func TestTableImmutable(t *testing.T) {
	cols := [][]float64{{1, 2}}
	tbl, err := New([]string{"a"}, cols)
	require.Nil(t, err)

	cols[0][0] = 100
	col, err := tbl.Column("a")
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2}, col)

	col[1] = 100
	again, err := tbl.Column("a")
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2}, again)

	names := tbl.Names()
	names[0] = "b"
	assert.True(t, tbl.Has("a"))
	assert.False(t, tbl.Has("b"))
}

func TestSelect(t *testing.T) {
	tbl := newTestTable(t)

	testData := map[string]struct {
		names    []string
		expected [][]float64
		err      error
	}{
		"unknown column": {
			names: []string{"x1", "x3"},
			err:   ErrUnknownColumn,
		},
		"reordered": {
			names:    []string{"x2", "x1"},
			expected: [][]float64{{10, 1}, {20, 2}, {30, 3}, {40, 4}},
		},
		"repeated column": {
			names:    []string{"x1", "x1"},
			expected: [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			sub, err := tbl.Select(td.names)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.names, sub.Names())
			for i, row := range td.expected {
				assert.Equal(t, row, sub.Row(i))
			}
		})
	}
}

func TestRows(t *testing.T) {
	tbl := newTestTable(t)

	sub, err := tbl.Rows([]int{3, 0})
	require.Nil(t, err)
	assert.Equal(t, 2, sub.NumRows())
	assert.Equal(t, []float64{4, 40, 8}, sub.Row(0))
	assert.Equal(t, []float64{1, 10, 5}, sub.Row(1))

	_, err = tbl.Rows([]int{4})
	assert.ErrorIs(t, err, ErrRowOutOfBounds)
}

func TestMatrix(t *testing.T) {
	tbl := newTestTable(t)
	mx := tbl.Matrix()
	require.NotNil(t, mx)

	m, n := mx.Dims()
	assert.Equal(t, 4, m)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float64{2, 20, 6}, mat.Row(nil, 1, mx))

	empty, err := tbl.Select(nil)
	require.Nil(t, err)
	assert.Nil(t, empty.Matrix())
}
