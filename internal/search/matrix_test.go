package search_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/search"
)

func TestCosineSimilarities(t *testing.T) {
	// [[1 1 0]
	//  [1 0 1]]
	m, err := search.NewMatrix(2, 3, []int{0, 2, 4}, []int{0, 1, 0, 2}, []float64{1, 1, 1, 1})
	require.NoError(t, err)

	scores := m.CosineSimilarities(m.Row(0))
	assert.InDelta(t, 1.0, scores[0], 1e-12)
	assert.InDelta(t, 0.5, scores[1], 1e-12)
	assert.Equal(t, []float64{0, 0}, m.CosineSimilarities(search.SparseVector{}))
}

func TestNewMatrix(t *testing.T) {
	// [[1 0 2]
	//  [0 0 0]
	//  [0 3 0]]
	m, err := search.NewMatrix(3, 3, []int{0, 2, 2, 3}, []int{0, 2, 1}, []float64{1, 2, 3})
	require.NoError(t, err)

	row := m.Row(0)
	assert.Equal(t, []int{0, 2}, row.Indices)
	assert.Equal(t, []float64{1, 2}, row.Values)
	assert.Empty(t, m.Row(1).Indices)

	q := search.SparseVector{Indices: []int{0, 2}, Values: []float64{1, 2}}
	scores := m.CosineSimilarities(q)
	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], 1e-12)
	// Empty rows never score above zero
	assert.Equal(t, 0.0, scores[1])
	assert.Equal(t, 0.0, scores[2])

	q = search.SparseVector{Indices: []int{0, 1}, Values: []float64{1, 1}}
	scores = m.CosineSimilarities(q)
	assert.InDelta(t, 1/(math.Sqrt2*math.Sqrt(5)), scores[0], 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, scores[2], 1e-12)

	assert.Equal(t, []float64{0, 0, 0}, m.CosineSimilarities(search.SparseVector{}))
}

func TestNewMatrixRejectsBadLayout(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		indptr  []int
		indices []int
		data    []float64
	}{
		{"Short indptr", 2, 2, []int{0, 1}, []int{0}, []float64{1}},
		{"Indices and data differ", 1, 2, []int{0, 1}, []int{0, 1}, []float64{1}},
		{"Indptr does not span data", 1, 2, []int{0, 1}, []int{0, 1}, []float64{1, 1}},
		{"Decreasing indptr", 2, 2, []int{0, 2, 1}, []int{0}, []float64{1}},
		{"Column out of range", 1, 2, []int{0, 1}, []int{2}, []float64{1}},
		{"Negative shape", -1, 2, []int{0}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := search.NewMatrix(tt.rows, tt.cols, tt.indptr, tt.indices, tt.data)
			assert.Error(t, err)
		})
	}
}
