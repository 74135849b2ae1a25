// Package present turns ranked matches into display blocks.
package present

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/catalog"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/search"
)

// NoRatingsText replaces the rating when either the rating or its vote
// count is missing.
const NoRatingsText = "No ratings available"

// Block is one rendered recommendation
type Block struct {
	Rank      int     `json:"rank"`
	Index     int     `json:"index"`
	Heading   string  `json:"name"`
	Genre     string  `json:"genre"`
	Duration  string  `json:"duration"`
	Rating    string  `json:"rating"`
	Plot      string  `json:"description"`
	Score     float64 `json:"score"`
	ScoreText string  `json:"score_text"`
}

// Meta is the single metadata line under the heading.
func (b Block) Meta() string {
	return fmt.Sprintf("Genre: %s | Duration: %s | Rating: %s", b.Genre, b.Duration, b.Rating)
}

// RatingText renders "⭐<rating> <count>" or NoRatingsText.
func RatingText(r *catalog.Record) string {
	if r == nil || !r.HasRating() {
		return NoRatingsText
	}
	return "⭐" + formatRating(*r.Rating) + " " + strconv.FormatInt(*r.RatingCount, 10)
}

// formatRating prints floats with at least one decimal place (7.0, 8.5).
func formatRating(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ScoreText formats a similarity score with two decimals.
func ScoreText(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// Format builds one block per match, in match order. Matches whose index
// is outside the catalog are skipped.
func Format(cat catalog.Catalog, matches []search.Match) []Block {
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		rec, ok := cat.Get(m.Index)
		if !ok {
			continue
		}
		blocks = append(blocks, Block{
			Rank:      len(blocks) + 1,
			Index:     rec.Index,
			Heading:   rec.Name,
			Genre:     rec.Genre,
			Duration:  rec.Duration,
			Rating:    RatingText(rec),
			Plot:      catalog.CleanText(rec.Description),
			Score:     m.Score,
			ScoreText: ScoreText(m.Score),
		})
	}
	return blocks
}

// Render writes blocks as plain text.
func Render(w io.Writer, blocks []Block) error {
	var sb strings.Builder
	sb.WriteString("Top Recommendations\n\n")
	for _, b := range blocks {
		fmt.Fprintf(&sb, "%d. %s\n", b.Rank, b.Heading)
		sb.WriteString(b.Meta() + "\n")
		sb.WriteString("Plot: " + b.Plot + "\n")
		sb.WriteString("Similarity Score: " + b.ScoreText + "\n")
		sb.WriteString("---\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
