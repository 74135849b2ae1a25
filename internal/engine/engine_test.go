package engine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/catalog"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/config"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/engine"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/nlp"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/search"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/storage"
)

// Mocks

type MockNormalizer struct {
	mock.Mock
}

func (m *MockNormalizer) Normalize(text string) string {
	args := m.Called(text)
	return args.String(0)
}

var plots = []string{
	"boy dog park",
	"cat sat mat",
	"dog runs boy",
	"space station crew",
	"pirate ship treasure",
	"ghost house night",
	"robot city future",
}

func fixtureArtifact(n int) *storage.Artifact {
	v := search.NewTFIDFVectorizer()
	m := v.Fit(plots[:n])
	cat := make(catalog.Catalog, n)
	for i := 0; i < n; i++ {
		cat[i] = catalog.Record{Index: i, Name: plots[i], Description: plots[i]}
	}
	return &storage.Artifact{Vectorizer: v, Matrix: m, Catalog: cat, Source: "memory"}
}

func newTestEngine(t *testing.T, n int, norm engine.TextNormalizer) *engine.Engine {
	t.Helper()
	logger := logrus.New().WithField("test", "engine")
	eng, err := engine.NewEngine(config.Load(), logger, fixtureArtifact(n), norm)
	require.NoError(t, err)
	return eng
}

func TestNewEngine(t *testing.T) {
	eng := newTestEngine(t, 3, new(MockNormalizer))

	assert.NotNil(t, eng)
	assert.NotNil(t, eng.Ranker)
	assert.Len(t, eng.Catalog(), 3)
	assert.Equal(t, search.DefaultTopK, eng.TopK())
}

func TestNewEngineErrors(t *testing.T) {
	cfg := config.Load()
	norm := new(MockNormalizer)

	_, err := engine.NewEngine(cfg, nil, nil, norm)
	assert.Error(t, err)

	_, err = engine.NewEngine(cfg, nil, &storage.Artifact{}, norm)
	assert.Error(t, err)

	_, err = engine.NewEngine(cfg, nil, fixtureArtifact(2), nil)
	assert.Error(t, err)

	empty := fixtureArtifact(2)
	empty.Catalog = nil
	_, err = engine.NewEngine(cfg, nil, empty, norm)
	assert.ErrorIs(t, err, engine.ErrEmptyCatalog)
}

func TestNewEngineTopKFromConfig(t *testing.T) {
	cfg := config.Load()
	cfg.Ranker.TopK = 2

	eng, err := engine.NewEngine(cfg, nil, fixtureArtifact(5), new(MockNormalizer))
	require.NoError(t, err)
	assert.Equal(t, 2, eng.TopK())
}

func TestRecommend(t *testing.T) {
	norm := new(MockNormalizer)
	norm.On("Normalize", "A boy and his dog!").Return("boy dog")
	eng := newTestEngine(t, 7, norm)

	resp, err := eng.Recommend(context.Background(), "A boy and his dog!")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.QueryID)
	assert.Equal(t, "A boy and his dog!", resp.Query)
	assert.Equal(t, "boy dog", resp.Normalized)
	require.Len(t, resp.Results, search.DefaultTopK)

	assert.Equal(t, 0, resp.Results[0].Record.Index)
	assert.Equal(t, 2, resp.Results[1].Record.Index)
	for i, r := range resp.Results {
		assert.Equal(t, i+1, r.Rank)
		if i > 0 {
			assert.LessOrEqual(t, r.Score, resp.Results[i-1].Score)
		}
	}

	matches := resp.Matches()
	assert.Equal(t, 0, matches[0].Index)
	assert.Equal(t, resp.Results[0].Score, matches[0].Score)
	norm.AssertExpectations(t)
}

func TestRecommendExactPlot(t *testing.T) {
	norm := new(MockNormalizer)
	norm.On("Normalize", mock.Anything).Return("pirate ship treasure")
	eng := newTestEngine(t, 7, norm)

	resp, err := eng.Recommend(context.Background(), "Pirates on ships hunting treasure")
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Results[0].Record.Index)
	assert.InDelta(t, 1.0, resp.Results[0].Score, 1e-9)
}

func TestRecommendEmptyNormalizedQuery(t *testing.T) {
	norm := new(MockNormalizer)
	norm.On("Normalize", "the, and — of!").Return("")
	eng := newTestEngine(t, 7, norm)

	resp, err := eng.Recommend(context.Background(), "the, and — of!")
	require.NoError(t, err)

	require.Len(t, resp.Results, 5)
	for i, r := range resp.Results {
		assert.Equal(t, i, r.Record.Index)
		assert.Equal(t, 0.0, r.Score)
	}
}

func TestRecommendSmallCatalog(t *testing.T) {
	norm := new(MockNormalizer)
	norm.On("Normalize", mock.Anything).Return("dog")
	eng := newTestEngine(t, 3, norm)

	resp, err := eng.Recommend(context.Background(), "dog")
	require.NoError(t, err)
	assert.Len(t, resp.Results, 3)
}

func TestRecommendCancelled(t *testing.T) {
	norm := new(MockNormalizer)
	eng := newTestEngine(t, 3, norm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Recommend(ctx, "dog")
	assert.ErrorIs(t, err, context.Canceled)
	norm.AssertNotCalled(t, "Normalize", mock.Anything)
}

func TestOpenMissingArtifact(t *testing.T) {
	cfg := config.Load()
	cfg.Artifact.Path = t.TempDir() + "/missing.json"

	_, err := engine.Open(context.Background(), cfg, logrus.New().WithField("test", "engine"))
	assert.Error(t, err)
}

func TestOpenWithEnglishNormalizer(t *testing.T) {
	if testing.Short() {
		t.Skip("loads the full lemma dictionary")
	}
	norm, err := nlp.NewNormalizer()
	require.NoError(t, err)

	descriptions := []string{
		"a boy and his dog",
		"spaceship crew stranded in orbit",
		"a boy and his dog find treasure",
	}
	docs := make([]string, len(descriptions))
	cat := make(catalog.Catalog, len(descriptions))
	for i, d := range descriptions {
		docs[i] = norm.Normalize(d)
		cat[i] = catalog.Record{Index: i, Name: d, Description: d}
	}
	assert.Equal(t, "spaceship crew strand orbit", docs[1])

	v := search.NewTFIDFVectorizer()
	m := v.Fit(docs)
	cfg := config.Load()
	cfg.Artifact.Path = filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, storage.NewFileStorage(cfg.Artifact.Path).Save(&storage.Artifact{Vectorizer: v, Matrix: m, Catalog: cat}))

	eng, err := engine.Open(context.Background(), cfg, logrus.New().WithField("test", "engine"))
	require.NoError(t, err)

	resp, err := eng.Recommend(context.Background(), "boy dog")
	require.NoError(t, err)
	assert.Equal(t, "boy dog", resp.Normalized)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 0, resp.Results[0].Record.Index)
	assert.Equal(t, 2, resp.Results[1].Record.Index)
	assert.Equal(t, 1, resp.Results[2].Record.Index)
	assert.Greater(t, resp.Results[1].Score, resp.Results[2].Score)

	resp, err = eng.Recommend(context.Background(), "the, and — of!")
	require.NoError(t, err)
	assert.Equal(t, "", resp.Normalized)
	assert.Len(t, resp.Results, 3)

	resp, err = eng.Recommend(context.Background(), "the crew")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Results[0].Record.Index)
	assert.Greater(t, resp.Results[0].Score, 0.0)
}
