package search

import (
	"fmt"
	"math"
)

// SparseVector holds non-zero weights keyed by column, Indices ascending.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Norm is the Euclidean length of the vector.
func (s SparseVector) Norm() float64 {
	var sum float64
	for _, x := range s.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// IsZero reports whether the vector has no non-zero weight.
func (s SparseVector) IsZero() bool {
	for _, x := range s.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

func (s SparseVector) scale(by float64) {
	if by == 0 {
		return
	}
	for i := range s.Values {
		s.Values[i] /= by
	}
}

// Matrix is a compressed sparse row document-term matrix. Row i belongs to
// catalog record i.
type Matrix struct {
	Rows    int
	Cols    int
	Indptr  []int
	Indices []int
	Data    []float64

	norms []float64
}

// NewMatrix validates CSR arrays and caches row norms.
func NewMatrix(rows, cols int, indptr, indices []int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("negative matrix shape (%d, %d)", rows, cols)
	}
	if len(indptr) != rows+1 {
		return nil, fmt.Errorf("indptr has %d entries, want %d", len(indptr), rows+1)
	}
	if len(indices) != len(data) {
		return nil, fmt.Errorf("indices (%d) and data (%d) differ in length", len(indices), len(data))
	}
	if indptr[0] != 0 || indptr[rows] != len(data) {
		return nil, fmt.Errorf("indptr must span [0,%d], got [%d,%d]", len(data), indptr[0], indptr[rows])
	}
	for i := 0; i < rows; i++ {
		if indptr[i] > indptr[i+1] {
			return nil, fmt.Errorf("indptr decreases at row %d", i)
		}
	}
	for k, col := range indices {
		if col < 0 || col >= cols {
			return nil, fmt.Errorf("entry %d has column %d outside [0,%d)", k, col, cols)
		}
	}

	m := &Matrix{
		Rows:    rows,
		Cols:    cols,
		Indptr:  indptr,
		Indices: indices,
		Data:    data,
		norms:   make([]float64, rows),
	}
	for i := 0; i < rows; i++ {
		var sum float64
		for k := indptr[i]; k < indptr[i+1]; k++ {
			sum += data[k] * data[k]
		}
		m.norms[i] = math.Sqrt(sum)
	}
	return m, nil
}

// Row returns row i as a sparse vector sharing the matrix storage.
func (m *Matrix) Row(i int) SparseVector {
	lo, hi := m.Indptr[i], m.Indptr[i+1]
	return SparseVector{Indices: m.Indices[lo:hi], Values: m.Data[lo:hi]}
}

// CosineSimilarities scores q against every row, in row order. Rows or
// queries with zero norm score 0.
func (m *Matrix) CosineSimilarities(q SparseVector) []float64 {
	scores := make([]float64, m.Rows)
	qNorm := q.Norm()
	if qNorm == 0 {
		return scores
	}

	dense := make([]float64, m.Cols)
	for i, idx := range q.Indices {
		if idx >= 0 && idx < m.Cols {
			dense[idx] = q.Values[i]
		}
	}

	for i := 0; i < m.Rows; i++ {
		if m.norms[i] == 0 {
			continue
		}
		var dotProduct float64
		for k := m.Indptr[i]; k < m.Indptr[i+1]; k++ {
			dotProduct += dense[m.Indices[k]] * m.Data[k]
		}
		scores[i] = dotProduct / (qNorm * m.norms[i])
	}
	return scores
}

type matrixBuilder struct {
	cols    int
	indptr  []int
	indices []int
	data    []float64
}

func newMatrixBuilder(cols int) *matrixBuilder {
	return &matrixBuilder{cols: cols, indptr: []int{0}}
}

func (b *matrixBuilder) appendRow(v SparseVector) {
	b.indices = append(b.indices, v.Indices...)
	b.data = append(b.data, v.Values...)
	b.indptr = append(b.indptr, len(b.data))
}

func (b *matrixBuilder) build() *Matrix {
	m, err := NewMatrix(len(b.indptr)-1, b.cols, b.indptr, b.indices, b.data)
	if err != nil {
		// Rows come from weigh, which only emits in-vocabulary columns.
		panic(err)
	}
	return m
}
