package search

import (
	"fmt"
	"math"
	"sort"
)

// Norm selects the per-vector normalization applied after weighting.
type Norm string

const (
	NormL2   Norm = "l2"
	NormL1   Norm = "l1"
	NormNone Norm = ""
)

// Vectorizer turns text into a vector
type Vectorizer interface {
	Transform(text string) SparseVector
	Dim() int
}

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
// over a fixed vocabulary.
type TFIDFVectorizer struct {
	Analyzer    Analyzer
	Vocabulary  map[string]int
	IDF         []float64
	Norm        Norm
	SublinearTF bool
}

func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Analyzer:   Analyzer{Lowercase: true},
		Vocabulary: make(map[string]int),
		Norm:       NormL2,
	}
}

// Dim is the size of the vocabulary.
func (v *TFIDFVectorizer) Dim() int {
	return len(v.IDF)
}

// Validate checks that the vocabulary and IDF weights describe the same space.
func (v *TFIDFVectorizer) Validate() error {
	if len(v.Vocabulary) != len(v.IDF) {
		return fmt.Errorf("vocabulary has %d terms but idf has %d weights", len(v.Vocabulary), len(v.IDF))
	}
	seen := make([]bool, len(v.IDF))
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("term %q maps to column %d outside [0,%d)", term, idx, len(v.IDF))
		}
		if seen[idx] {
			return fmt.Errorf("column %d is assigned to more than one term", idx)
		}
		seen[idx] = true
	}
	switch v.Norm {
	case NormL2, NormL1, NormNone:
	default:
		return fmt.Errorf("unsupported norm %q", v.Norm)
	}
	return nil
}

// Fit builds vocabulary and smoothed IDF weights from docs and returns the
// document-term matrix of the same docs. It replaces any previous state.
func (v *TFIDFVectorizer) Fit(docs []string) *Matrix {
	docCount := float64(len(docs))
	wordDocCounts := make(map[string]int)

	analyzed := make([][]string, len(docs))
	for i, doc := range docs {
		terms := v.Analyzer.Terms(doc)
		analyzed[i] = terms
		seenInDoc := make(map[string]bool)
		for _, term := range terms {
			if !seenInDoc[term] {
				wordDocCounts[term]++
				seenInDoc[term] = true
			}
		}
	}

	// Columns are assigned in lexical order so the space is deterministic.
	words := make([]string, 0, len(wordDocCounts))
	for word := range wordDocCounts {
		words = append(words, word)
	}
	sort.Strings(words)

	v.Vocabulary = make(map[string]int, len(words))
	v.IDF = make([]float64, len(words))
	for i, word := range words {
		v.Vocabulary[word] = i
		// idf = ln((1 + n) / (1 + df)) + 1
		v.IDF[i] = math.Log((1+docCount)/(1+float64(wordDocCounts[word]))) + 1
	}

	b := newMatrixBuilder(len(words))
	for _, terms := range analyzed {
		b.appendRow(v.weigh(terms))
	}
	return b.build()
}

// Transform converts text to a vector based on the learned vocabulary.
// Terms outside the vocabulary are ignored.
func (v *TFIDFVectorizer) Transform(text string) SparseVector {
	return v.weigh(v.Analyzer.Terms(text))
}

func (v *TFIDFVectorizer) weigh(terms []string) SparseVector {
	tf := make(map[int]float64)
	for _, term := range terms {
		if idx, exists := v.Vocabulary[term]; exists {
			tf[idx]++
		}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	for _, idx := range vec.Indices {
		count := tf[idx]
		if v.SublinearTF {
			count = 1 + math.Log(count)
		}
		vec.Values = append(vec.Values, count*v.IDF[idx])
	}

	switch v.Norm {
	case NormL2:
		vec.scale(vec.Norm())
	case NormL1:
		var sum float64
		for _, x := range vec.Values {
			sum += math.Abs(x)
		}
		vec.scale(sum)
	}
	return vec
}
