// Package dataset loads whitespace delimited tables of named numeric columns and partitions
// them into train and test sets.
package dataset

import (
	mat_ "github.com/aouyang1/go-fwdselect/mat"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoColumns         = errors.New("no columns")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrColumnLenMismatch = errors.New("column has a different length than the first column")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrRowOutOfBounds    = errors.New("row is out of bounds")
)

// Table is an ordered set of named numeric columns of equal length. A Table is never
// modified after construction; accessors hand out copies.
type Table struct {
	names []string
	cols  [][]float64
	index map[string]int
}

// New returns a Table with the given column names and values. Names must be unique and all
// columns must have the same length.
func New(names []string, cols [][]float64) (*Table, error) {
	if len(names) == 0 {
		return nil, ErrNoColumns
	}
	if len(names) != len(cols) {
		return nil, errors.Wrapf(ErrColumnLenMismatch, "got %d names for %d columns", len(names), len(cols))
	}

	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if _, exists := seen[name]; exists {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", name)
		}
		seen[name] = struct{}{}

		if len(cols[i]) != len(cols[0]) {
			return nil, errors.Wrapf(
				ErrColumnLenMismatch,
				"column %q has length %d, expected %d", name, len(cols[i]), len(cols[0]),
			)
		}
	}

	colsCopy := make([][]float64, len(cols))
	for i, col := range cols {
		colsCopy[i] = append([]float64(nil), col...)
	}
	return newTable(append([]string(nil), names...), colsCopy), nil
}

// newTable takes ownership of names and cols without validation. Names may repeat, in which
// case lookups by name resolve to the first occurrence.
func newTable(names []string, cols [][]float64) *Table {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return &Table{
		names: names,
		cols:  cols,
		index: index,
	}
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0])
}

func (t *Table) NumCols() int {
	return len(t.names)
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, exists := t.index[name]
	return exists
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	i, exists := t.index[name]
	if !exists {
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
	return append([]float64(nil), t.cols[i]...), nil
}

// Select returns a table holding the named columns in the given order. A name may be listed
// more than once, producing a repeated column.
func (t *Table) Select(names []string) (*Table, error) {
	cols := make([][]float64, 0, len(names))
	for _, name := range names {
		i, exists := t.index[name]
		if !exists {
			return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
		}
		cols = append(cols, append([]float64(nil), t.cols[i]...))
	}
	return newTable(append([]string(nil), names...), cols), nil
}

// Rows returns a table restricted to the given row indices, in that order.
func (t *Table) Rows(idx []int) (*Table, error) {
	n := t.NumRows()
	cols := make([][]float64, len(t.cols))
	for j, col := range t.cols {
		sub := make([]float64, len(idx))
		for k, i := range idx {
			if i < 0 || i >= n {
				return nil, errors.Wrapf(ErrRowOutOfBounds, "row %d of %d", i, n)
			}
			sub[k] = col[i]
		}
		cols[j] = sub
	}
	return newTable(append([]string(nil), t.names...), cols), nil
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.cols))
	for j, col := range t.cols {
		row[j] = col[i]
	}
	return row
}

// Matrix returns the table as a rows x columns dense matrix. A table without rows or
// columns yields nil.
func (t *Table) Matrix() *mat.Dense {
	mx, err := mat_.NewDenseFromCols(t.cols)
	if err != nil {
		return nil
	}
	return mx
}
