package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/catalog"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/search"
)

// ErrInvalidArtifact marks a bundle that decoded but cannot serve queries.
var ErrInvalidArtifact = errors.New("invalid artifact")

// Artifact is the loaded model bundle. It is never modified after Load.
type Artifact struct {
	Vectorizer *search.TFIDFVectorizer
	Matrix     *search.Matrix
	// Similarity is the optional precomputed record-by-record cosine
	// matrix shipped with the bundle. Queries are always scored live.
	Similarity [][]float64
	Catalog    catalog.Catalog
	Source     string
}

// bundle is the on-disk layout of an artifact.
type bundle struct {
	TFIDF       *vectorizerJSON `json:"tfidf"`
	TFIDFMatrix *matrixJSON     `json:"tfidf_matrix"`
	CosineSim   [][]float64     `json:"cosine_sim,omitempty"`
	Movies      []movieJSON     `json:"movies"`
}

type vectorizerJSON struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	Lowercase   *bool          `json:"lowercase,omitempty"`
	Norm        string         `json:"norm,omitempty"`
	SublinearTF bool           `json:"sublinear_tf,omitempty"`
	NGramRange  []int          `json:"ngram_range,omitempty"`
	StopWords   []string       `json:"stop_words,omitempty"`
}

type matrixJSON struct {
	Shape   []int     `json:"shape"`
	Indptr  []int     `json:"indptr"`
	Indices []int     `json:"indices"`
	Data    []float64 `json:"data"`
}

type movieJSON struct {
	Name        string    `json:"name"`
	Genre       string    `json:"genre"`
	Duration    flexText  `json:"duration"`
	Description string    `json:"description"`
	Rating      flexFloat `json:"rating"`
	RatingCount flexFloat `json:"rating_count"`
}

// flexFloat accepts a number, a numeric string, null, or a NaN marker.
// Anything that is not a finite number decodes as absent.
type flexFloat struct {
	Value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		f.Value = nil
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		f.Value = nil
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		f.Value = nil
		return nil
	}
	f.Value = &v
	return nil
}

func (f flexFloat) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// flexText keeps durations that were exported as numbers (minutes) readable.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*t = flexText(str)
		return nil
	}
	*t = flexText(s)
	return nil
}

// decodeBundle validates the raw bundle and builds the immutable artifact.
func decodeBundle(b *bundle, source string) (*Artifact, error) {
	if b.TFIDF == nil {
		return nil, fmt.Errorf("%w: missing field %q", ErrInvalidArtifact, "tfidf")
	}
	if b.TFIDFMatrix == nil {
		return nil, fmt.Errorf("%w: missing field %q", ErrInvalidArtifact, "tfidf_matrix")
	}
	if b.Movies == nil {
		return nil, fmt.Errorf("%w: missing field %q", ErrInvalidArtifact, "movies")
	}
	if len(b.Movies) == 0 {
		return nil, fmt.Errorf("%w: catalog is empty", ErrInvalidArtifact)
	}

	vec, err := b.TFIDF.build()
	if err != nil {
		return nil, fmt.Errorf("%w: tfidf: %v", ErrInvalidArtifact, err)
	}

	mj := b.TFIDFMatrix
	if len(mj.Shape) != 2 {
		return nil, fmt.Errorf("%w: tfidf_matrix shape must have 2 dimensions, got %d", ErrInvalidArtifact, len(mj.Shape))
	}
	matrix, err := search.NewMatrix(mj.Shape[0], mj.Shape[1], mj.Indptr, mj.Indices, mj.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: tfidf_matrix: %v", ErrInvalidArtifact, err)
	}
	if matrix.Rows != len(b.Movies) {
		return nil, fmt.Errorf("%w: tfidf_matrix has %d rows but catalog has %d movies", ErrInvalidArtifact, matrix.Rows, len(b.Movies))
	}
	if matrix.Cols != vec.Dim() {
		return nil, fmt.Errorf("%w: tfidf_matrix has %d columns but vocabulary has %d terms", ErrInvalidArtifact, matrix.Cols, vec.Dim())
	}

	if b.CosineSim != nil {
		if len(b.CosineSim) != len(b.Movies) {
			return nil, fmt.Errorf("%w: cosine_sim has %d rows, want %d", ErrInvalidArtifact, len(b.CosineSim), len(b.Movies))
		}
		for i, row := range b.CosineSim {
			if len(row) != len(b.Movies) {
				return nil, fmt.Errorf("%w: cosine_sim row %d has %d columns, want %d", ErrInvalidArtifact, i, len(row), len(b.Movies))
			}
		}
	}

	records := make(catalog.Catalog, len(b.Movies))
	for i, m := range b.Movies {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Description) == "" {
			return nil, fmt.Errorf("%w: movie %d: missing name/description", ErrInvalidArtifact, i)
		}
		records[i] = catalog.Record{
			Index:       i,
			Name:        m.Name,
			Genre:       m.Genre,
			Duration:    string(m.Duration),
			Description: m.Description,
			Rating:      m.Rating.Value,
		}
		if m.RatingCount.Value != nil {
			count := int64(math.Round(*m.RatingCount.Value))
			records[i].RatingCount = &count
		}
	}

	return &Artifact{
		Vectorizer: vec,
		Matrix:     matrix,
		Similarity: b.CosineSim,
		Catalog:    records,
		Source:     source,
	}, nil
}

func (v *vectorizerJSON) build() (*search.TFIDFVectorizer, error) {
	vec := search.NewTFIDFVectorizer()
	vec.Vocabulary = v.Vocabulary
	if vec.Vocabulary == nil {
		return nil, fmt.Errorf("missing vocabulary")
	}
	vec.IDF = v.IDF
	vec.SublinearTF = v.SublinearTF
	if v.Lowercase != nil {
		vec.Analyzer.Lowercase = *v.Lowercase
	}

	switch strings.ToLower(v.Norm) {
	case "", "l2":
		vec.Norm = search.NormL2
	case "l1":
		vec.Norm = search.NormL1
	case "none":
		vec.Norm = search.NormNone
	default:
		return nil, fmt.Errorf("unsupported norm %q", v.Norm)
	}

	switch len(v.NGramRange) {
	case 0:
	case 2:
		if v.NGramRange[0] < 1 || v.NGramRange[1] < v.NGramRange[0] {
			return nil, fmt.Errorf("invalid ngram_range %v", v.NGramRange)
		}
		vec.Analyzer.NGramMin, vec.Analyzer.NGramMax = v.NGramRange[0], v.NGramRange[1]
	default:
		return nil, fmt.Errorf("ngram_range must have 2 entries, got %d", len(v.NGramRange))
	}

	if len(v.StopWords) > 0 {
		vec.Analyzer.StopWords = make(map[string]struct{}, len(v.StopWords))
		for _, w := range v.StopWords {
			vec.Analyzer.StopWords[w] = struct{}{}
		}
	}

	if err := vec.Validate(); err != nil {
		return nil, err
	}
	return vec, nil
}

// encodeBundle is the inverse of decodeBundle.
func encodeBundle(a *Artifact) *bundle {
	v := a.Vectorizer
	lower := v.Analyzer.Lowercase
	norm := string(v.Norm)
	if v.Norm == search.NormNone {
		norm = "none"
	}
	vj := &vectorizerJSON{
		Vocabulary:  v.Vocabulary,
		IDF:         v.IDF,
		Lowercase:   &lower,
		Norm:        norm,
		SublinearTF: v.SublinearTF,
	}
	if v.Analyzer.NGramMin > 0 || v.Analyzer.NGramMax > 0 {
		vj.NGramRange = []int{max(v.Analyzer.NGramMin, 1), max(v.Analyzer.NGramMax, v.Analyzer.NGramMin, 1)}
	}
	for w := range v.Analyzer.StopWords {
		vj.StopWords = append(vj.StopWords, w)
	}

	movies := make([]movieJSON, len(a.Catalog))
	for i, r := range a.Catalog {
		movies[i] = movieJSON{
			Name:        r.Name,
			Genre:       r.Genre,
			Duration:    flexText(r.Duration),
			Description: r.Description,
			Rating:      flexFloat{Value: r.Rating},
		}
		if r.RatingCount != nil {
			count := float64(*r.RatingCount)
			movies[i].RatingCount = flexFloat{Value: &count}
		}
	}

	return &bundle{
		TFIDF: vj,
		TFIDFMatrix: &matrixJSON{
			Shape:   []int{a.Matrix.Rows, a.Matrix.Cols},
			Indptr:  a.Matrix.Indptr,
			Indices: a.Matrix.Indices,
			Data:    a.Matrix.Data,
		},
		CosineSim: a.Similarity,
		Movies:    movies,
	}
}
