package search

import (
	"fmt"
	"sort"
)

// DefaultTopK is the number of recommendations returned per query.
const DefaultTopK = 5

// Match is a ranked catalog row and its score
type Match struct {
	Index int
	Score float64
}

// TopK returns the k highest scores in non-increasing order. Equal scores
// keep ascending index order. Fewer than k matches are returned only when
// scores itself is shorter than k.
func TopK(scores []float64, k int) []Match {
	matches := make([]Match, len(scores))
	for i, s := range scores {
		matches[i] = Match{Index: i, Score: s}
	}

	// Sort by descending score
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < 0 {
		k = 0
	}
	if len(matches) > k {
		return matches[:k]
	}
	return matches
}

// Ranker scores queries against the document-term matrix
type Ranker struct {
	Vectorizer Vectorizer
	Matrix     *Matrix
}

// NewRanker checks that the vectorizer and matrix share one term space.
func NewRanker(v Vectorizer, m *Matrix) (*Ranker, error) {
	if v == nil || m == nil {
		return nil, fmt.Errorf("ranker needs both a vectorizer and a matrix")
	}
	if v.Dim() != m.Cols {
		return nil, fmt.Errorf("vectorizer has %d terms but matrix has %d columns", v.Dim(), m.Cols)
	}
	return &Ranker{Vectorizer: v, Matrix: m}, nil
}

// Scores projects an already-normalized query and scores every row.
func (r *Ranker) Scores(query string) []float64 {
	return r.Matrix.CosineSimilarities(r.Vectorizer.Transform(query))
}

// Rank returns the topK catalog rows most similar to the normalized query.
func (r *Ranker) Rank(query string, topK int) []Match {
	return TopK(r.Scores(query), topK)
}
