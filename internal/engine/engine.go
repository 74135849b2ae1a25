package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/catalog"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/config"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/nlp"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/search"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/storage"
)

var ErrEmptyCatalog = errors.New("catalog has no movies")

// TextNormalizer reduces raw input to the form the vocabulary was built from
type TextNormalizer interface {
	Normalize(text string) string
}

// Engine runs the normalize -> rank -> attach pipeline. All of its state is
// read-only after NewEngine, so one Engine serves concurrent callers.
type Engine struct {
	Config     *config.Config
	Logger     *logrus.Entry
	Artifact   *storage.Artifact
	Normalizer TextNormalizer
	Ranker     *search.Ranker

	topK int
}

// Result is one recommended movie
type Result struct {
	Rank   int
	Record *catalog.Record
	Score  float64
}

// Response is the outcome of a single query
type Response struct {
	QueryID    string
	Query      string
	Normalized string
	Results    []Result
	Elapsed    time.Duration
}

func NewEngine(cfg *config.Config, logger *logrus.Entry, artifact *storage.Artifact, normalizer TextNormalizer) (*Engine, error) {
	if artifact == nil || artifact.Vectorizer == nil || artifact.Matrix == nil {
		return nil, fmt.Errorf("engine needs a loaded artifact")
	}
	if normalizer == nil {
		return nil, fmt.Errorf("engine needs a text normalizer")
	}
	if len(artifact.Catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	if logger == nil {
		logger = logrus.WithField("component", "engine")
	}

	ranker, err := search.NewRanker(artifact.Vectorizer, artifact.Matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to build ranker: %w", err)
	}

	topK := search.DefaultTopK
	if cfg != nil && cfg.Ranker.TopK > 0 {
		topK = cfg.Ranker.TopK
	}

	return &Engine{
		Config:     cfg,
		Logger:     logger,
		Artifact:   artifact,
		Normalizer: normalizer,
		Ranker:     ranker,
		topK:       topK,
	}, nil
}

// Open loads the artifact named by cfg and wires a ready engine. Any error
// here means the process cannot serve queries.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Entry) (*Engine, error) {
	start := time.Now()
	src := storage.NewSource(cfg.Artifact.Path, cfg.Artifact.FetchTimeout)

	artifact, err := storage.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}

	normalizer, err := nlp.NewNormalizer()
	if err != nil {
		return nil, err
	}

	eng, err := NewEngine(cfg, logger, artifact, normalizer)
	if err != nil {
		return nil, err
	}

	eng.Logger.WithFields(logrus.Fields{
		"artifact":   artifact.Source,
		"movies":     len(artifact.Catalog),
		"vocabulary": artifact.Vectorizer.Dim(),
		"elapsed":    time.Since(start).String(),
	}).Info("Recommendation engine ready")
	return eng, nil
}

// TopK is the number of results returned per query.
func (e *Engine) TopK() int {
	return e.topK
}

// Catalog exposes the loaded movie table
func (e *Engine) Catalog() catalog.Catalog {
	return e.Artifact.Catalog
}

// Recommend returns the catalog entries most similar to a free-text plot.
// An input that normalizes to nothing still yields results, all scored 0.
func (e *Engine) Recommend(ctx context.Context, text string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	resp := &Response{
		QueryID:    uuid.NewString(),
		Query:      text,
		Normalized: e.Normalizer.Normalize(text),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := e.Ranker.Rank(resp.Normalized, e.topK)
	resp.Results = make([]Result, 0, len(matches))
	for i, m := range matches {
		rec, ok := e.Artifact.Catalog.Get(m.Index)
		if !ok {
			return nil, fmt.Errorf("ranked row %d has no catalog record", m.Index)
		}
		resp.Results = append(resp.Results, Result{Rank: i + 1, Record: rec, Score: m.Score})
	}
	resp.Elapsed = time.Since(start)

	entry := e.Logger.WithFields(logrus.Fields{
		"query_id":   resp.QueryID,
		"normalized": resp.Normalized,
		"results":    len(resp.Results),
		"elapsed":    resp.Elapsed.String(),
	})
	if resp.Normalized == "" {
		entry.Info("Query normalized to empty text; scores are all zero")
	} else {
		entry.Debug("Query ranked")
	}
	return resp, nil
}

// Matches returns the ranked (index, score) pairs of the response.
func (r *Response) Matches() []search.Match {
	out := make([]search.Match, len(r.Results))
	for i, res := range r.Results {
		out[i] = search.Match{Index: res.Record.Index, Score: res.Score}
	}
	return out
}
