package catalog

import (
	"math"
)

// Record is one movie row of the catalog. Index is the row position and
// matches the row of the document-term matrix.
type Record struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Genre       string   `json:"genre"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int64   `json:"rating_count,omitempty"`
}

// HasRating reports whether both the rating and its vote count are present.
func (r *Record) HasRating() bool {
	if r.Rating == nil || r.RatingCount == nil {
		return false
	}
	return !math.IsNaN(*r.Rating) && !math.IsInf(*r.Rating, 0)
}

// Catalog is the ordered, read-only movie table.
type Catalog []Record

// Get returns the record at idx, or false when idx is out of range.
func (c Catalog) Get(idx int) (*Record, bool) {
	if idx < 0 || idx >= len(c) {
		return nil, false
	}
	return &c[idx], true
}
