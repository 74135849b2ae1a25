package present_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/catalog"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/present"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/search"
)

func ptr[T any](v T) *T { return &v }

func TestRatingText(t *testing.T) {
	tests := []struct {
		name   string
		record *catalog.Record
		want   string
	}{
		{"Whole rating", &catalog.Record{Rating: ptr(7.0), RatingCount: ptr(int64(100))}, "⭐7.0 100"},
		{"Fractional rating", &catalog.Record{Rating: ptr(8.5), RatingCount: ptr(int64(2500000))}, "⭐8.5 2500000"},
		{"NaN rating", &catalog.Record{Rating: ptr(math.NaN()), RatingCount: ptr(int64(100))}, present.NoRatingsText},
		{"Missing count", &catalog.Record{Rating: ptr(6.2)}, present.NoRatingsText},
		{"Missing rating", &catalog.Record{RatingCount: ptr(int64(3))}, present.NoRatingsText},
		{"Nil record", nil, present.NoRatingsText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, present.RatingText(tt.record))
		})
	}
	assert.Equal(t, "No ratings available", present.NoRatingsText)
}

func TestScoreText(t *testing.T) {
	assert.Equal(t, "0.00", present.ScoreText(0))
	assert.Equal(t, "0.46", present.ScoreText(0.456))
	assert.Equal(t, "1.00", present.ScoreText(0.99999))
}

func TestFormat(t *testing.T) {
	cat := catalog.Catalog{
		{Index: 0, Name: "Alpha", Genre: "Drama", Duration: "90 min", Description: "<p>First   plot</p>", Rating: ptr(7.0), RatingCount: ptr(int64(100))},
		{Index: 1, Name: "Beta", Genre: "Horror", Duration: "100 min", Description: "Second plot"},
	}
	matches := []search.Match{
		{Index: 1, Score: 0.8},
		{Index: 7, Score: 0.5},
		{Index: 0, Score: 0.25},
	}

	blocks := present.Format(cat, matches)
	require.Len(t, blocks, 2)

	assert.Equal(t, 1, blocks[0].Rank)
	assert.Equal(t, "Beta", blocks[0].Heading)
	assert.Equal(t, present.NoRatingsText, blocks[0].Rating)
	assert.Equal(t, "0.80", blocks[0].ScoreText)

	assert.Equal(t, 2, blocks[1].Rank)
	assert.Equal(t, 0, blocks[1].Index)
	assert.Equal(t, "First plot", blocks[1].Plot)
	assert.Equal(t, "Genre: Drama | Duration: 90 min | Rating: ⭐7.0 100", blocks[1].Meta())
}

func TestRender(t *testing.T) {
	blocks := []present.Block{{
		Rank:      1,
		Heading:   "Alpha",
		Genre:     "Drama",
		Duration:  "90 min",
		Rating:    present.NoRatingsText,
		Plot:      "A plot.",
		ScoreText: "0.42",
	}}

	var sb strings.Builder
	require.NoError(t, present.Render(&sb, blocks))

	want := "Top Recommendations\n\n" +
		"1. Alpha\n" +
		"Genre: Drama | Duration: 90 min | Rating: No ratings available\n" +
		"Plot: A plot.\n" +
		"Similarity Score: 0.42\n" +
		"---\n"
	assert.Equal(t, want, sb.String())
}
