package bracee

import (
	"context"
	"testing"

	"github.com/poiesic/bracee/ai/mock"
	"github.com/poiesic/bracee/config"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineTestResponse = `{
	"skills": ["golang"],
	"skills_logic": "OR",
	"normalized_query": "golang engineers",
	"raw_intent": "find golang engineers"
}`

func memoryConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Storage.InMemory = true
	cfg.Retrieval.RerankEnabled = false
	return cfg
}

func setupEngine(t *testing.T, cfg *config.Config) (*Engine, *mock.MockCompleter) {
	t.Helper()
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return engineTestResponse, nil
	}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), completer)

	engine, err := NewEngine(WithConfig(cfg), WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine, completer
}

func engineRecords() []*core.PersonRecord {
	return []*core.PersonRecord{
		{
			ID:       "p1",
			Name:     "Ada",
			Headline: "Go developer building search infrastructure",
			Location: "Bangalore, India",
			WorkExperience: []core.WorkExperience{
				{Title: "Engineer", Company: "Google"},
			},
		},
		{
			ID:       "p2",
			Name:     "Grace",
			Headline: "Frontend engineer",
			Location: "London, UK",
		},
	}
}

func TestEngine_IngestThenSearch(t *testing.T) {
	engine, _ := setupEngine(t, memoryConfig())
	ctx := context.Background()

	stats, err := engine.Ingest(ctx, engineRecords(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)

	result, err := engine.Search(ctx, "golang engineers", nil)
	require.NoError(t, err)
	assert.Equal(t, "golang engineers", result.Query)
	assert.NotEmpty(t, result.Results)
}

func TestEngine_Counts(t *testing.T) {
	engine, _ := setupEngine(t, memoryConfig())
	ctx := context.Background()

	_, err := engine.Ingest(ctx, engineRecords(), nil)
	require.NoError(t, err)

	counts, err := engine.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[core.FacetSkills])
	assert.Equal(t, 2, counts[core.FacetFreeText])
	assert.Equal(t, 1, counts[core.FacetCompanies])
	assert.Equal(t, 2, counts[core.FacetLocation])
	assert.Equal(t, 0, counts[core.FacetEducation])
}

func TestEngine_Reset(t *testing.T) {
	engine, _ := setupEngine(t, memoryConfig())
	ctx := context.Background()

	_, err := engine.Ingest(ctx, engineRecords(), nil)
	require.NoError(t, err)
	require.NoError(t, engine.Reset(ctx))

	counts, err := engine.Counts(ctx)
	require.NoError(t, err)
	for facet, n := range counts {
		assert.Zero(t, n, "facet %s", facet)
	}
	assert.Zero(t, engine.Normalizer().Cache().Len())
}

func TestEngine_SearchUsesInterpretationCache(t *testing.T) {
	engine, completer := setupEngine(t, memoryConfig())
	ctx := context.Background()

	_, err := engine.Ingest(ctx, engineRecords(), nil)
	require.NoError(t, err)

	_, err = engine.Search(ctx, "golang engineers", nil)
	require.NoError(t, err)
	firstCalls := completer.CallCount()

	_, err = engine.Search(ctx, "golang engineers", nil)
	require.NoError(t, err)
	assert.Equal(t, firstCalls, completer.CallCount())
}

func TestEngine_SearchInvalidQuery(t *testing.T) {
	engine, _ := setupEngine(t, memoryConfig())

	_, err := engine.Search(context.Background(), "", nil)
	assert.ErrorIs(t, err, core.ErrInvalidQuery)
}

func TestEngine_EvaluateJudgesResults(t *testing.T) {
	engine, completer := setupEngine(t, memoryConfig())
	ctx := context.Background()

	_, err := engine.Ingest(ctx, engineRecords(), nil)
	require.NoError(t, err)

	result, err := engine.Search(ctx, "golang engineers", nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return `{"overall_score": 9, "precision": 1, "feedback": "all relevant"}`, nil
	}
	eval, err := engine.Evaluate(ctx, "golang engineers", result.Results)
	require.NoError(t, err)
	assert.InDelta(t, 9, eval.OverallScore, 1e-9)
	assert.Equal(t, "all relevant", eval.Feedback)
}

func TestEngine_EvaluateEmptyResults(t *testing.T) {
	engine, completer := setupEngine(t, memoryConfig())
	ctx := context.Background()

	eval, err := engine.Evaluate(ctx, "golang engineers", nil)
	require.NoError(t, err)
	assert.Zero(t, eval.OverallScore)
	assert.Equal(t, []string{"empty_results"}, eval.Issues)
	// Only the normalizer talked to the completer
	assert.Equal(t, 1, completer.CallCount())
}

func TestEngine_DisableRerankPerQuery(t *testing.T) {
	cfg := memoryConfig()
	cfg.Retrieval.RerankEnabled = true
	engine, completer := setupEngine(t, cfg)
	ctx := context.Background()

	_, err := engine.Ingest(ctx, engineRecords(), nil)
	require.NoError(t, err)

	_, err = engine.Search(ctx, "golang engineers", &search.SearchOptions{DisableRerank: true})
	require.NoError(t, err)
	// Only the normalizer talked to the completer
	assert.Equal(t, 1, completer.CallCount())
}
