// Package similarity stores the dense pairwise score matrix aligned with
// catalog positions.
package similarity

import (
	"errors"
	"fmt"
	"math"
)

// Matrix is a square row-major float64 matrix. It is immutable after New and
// safe for concurrent reads.
type Matrix struct {
	dim  int
	data []float64
}

// New takes ownership of data, which must hold dim*dim row-major values.
func New(dim int, data []float64) (*Matrix, error) {
	if dim < 0 {
		return nil, errors.New("similarity dimension must not be negative")
	}
	if len(data) != dim*dim {
		return nil, fmt.Errorf("similarity data has %d values, want %d for a %dx%d matrix", len(data), dim*dim, dim, dim)
	}
	return &Matrix{dim: dim, data: data}, nil
}

// FromRows copies a slice of equal-length rows into a Matrix.
func FromRows(rows [][]float64) (*Matrix, error) {
	dim := len(rows)
	data := make([]float64, 0, dim*dim)
	for idx, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("similarity row %d has %d columns, want %d", idx, len(row), dim)
		}
		data = append(data, row...)
	}
	return New(dim, data)
}

// Dim returns the number of rows (and columns).
func (m *Matrix) Dim() int {
	if m == nil {
		return 0
	}
	return m.dim
}

// Row returns the scores of row i. The slice aliases the matrix and must not
// be modified.
func (m *Matrix) Row(i int) ([]float64, bool) {
	if m == nil || i < 0 || i >= m.dim {
		return nil, false
	}
	start := i * m.dim
	return m.data[start : start+m.dim : start+m.dim], true
}

// NonFinite counts NaN and infinite entries.
func (m *Matrix) NonFinite() int {
	if m == nil {
		return 0
	}
	count := 0
	for _, v := range m.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			count++
		}
	}
	return count
}

// RowMajor returns the backing values in row-major order. The slice must not
// be modified.
func (m *Matrix) RowMajor() []float64 {
	if m == nil {
		return nil
	}
	return m.data
}
