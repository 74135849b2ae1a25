package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/search"
)

func indices(matches []search.Match) []int {
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Index
	}
	return out
}

func newTestRanker(t *testing.T, docs []string) *search.Ranker {
	t.Helper()
	v := search.NewTFIDFVectorizer()
	m := v.Fit(docs)
	r, err := search.NewRanker(v, m)
	require.NoError(t, err)
	return r
}

func TestTopK(t *testing.T) {
	scores := []float64{0.1, 0.5, 0.5, 0.9, 0}

	top := search.TopK(scores, 3)
	assert.Equal(t, []int{3, 1, 2}, indices(top))
	assert.Equal(t, 0.9, top[0].Score)

	assert.Len(t, search.TopK(scores, 10), 5)
	assert.Empty(t, search.TopK(scores, 0))
	assert.Empty(t, search.TopK(nil, 5))
}

func TestTopKTiesKeepIndexOrder(t *testing.T) {
	top := search.TopK([]float64{0, 0, 0, 0, 0, 0, 0}, search.DefaultTopK)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indices(top))
}

func TestRankSharedTerms(t *testing.T) {
	r := newTestRanker(t, []string{
		"boy dog park",
		"cat sat mat",
		"dog runs boy",
	})

	matches := r.Rank("boy dog", search.DefaultTopK)
	// Fewer rows than k returns every row
	require.Len(t, matches, 3)
	assert.Equal(t, []int{0, 2, 1}, indices(matches))
	assert.Greater(t, matches[0].Score, 0.0)
	assert.Equal(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, 0.0, matches[2].Score)
}

func TestRankExactDescription(t *testing.T) {
	r := newTestRanker(t, []string{
		"boy dog park",
		"cat sat mat",
		"dog runs boy",
	})

	matches := r.Rank("cat sat mat", 1)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Index)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestRankUnknownQuery(t *testing.T) {
	r := newTestRanker(t, []string{"alpha beta", "gamma delta", "epsilon zeta"})

	matches := r.Rank("", 2)
	assert.Equal(t, []int{0, 1}, indices(matches))
	for _, m := range matches {
		assert.Equal(t, 0.0, m.Score)
	}
}

func TestScoresBounded(t *testing.T) {
	r := newTestRanker(t, []string{"alpha beta", "beta gamma", "gamma alpha alpha"})

	for _, s := range r.Scores("alpha gamma gamma") {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0+1e-9)
	}
}

func TestNewRankerDimensionMismatch(t *testing.T) {
	v := search.NewTFIDFVectorizer()
	v.Fit([]string{"apple banana"})
	m, err := search.NewMatrix(1, 5, []int{0, 0}, nil, nil)
	require.NoError(t, err)

	_, err = search.NewRanker(v, m)
	assert.Error(t, err)

	_, err = search.NewRanker(nil, m)
	assert.Error(t, err)
}
