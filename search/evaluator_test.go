package search

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/bracee/ai/mock"
	"github.com/poiesic/bracee/core"
	badgerstore "github.com/poiesic/bracee/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEvaluator(t *testing.T, completer *mock.MockCompleter) *Evaluator {
	t.Helper()
	_, profiles, backend, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	require.NoError(t, profiles.PutProfiles(context.Background(),
		&core.Profile{ID: "p1", Name: "Ada", Headline: "ML engineer at Google"},
		&core.Profile{ID: "p2", Name: "Grace", Headline: "Backend engineer"},
	))

	e, err := NewEvaluator(completer, profiles)
	require.NoError(t, err)
	return e
}

func finalResultsFixture() []core.FinalResult {
	return []core.FinalResult{
		{PersonID: "p1", Score: 0.9},
		{PersonID: "p2", Score: 0.7},
	}
}

func TestEvaluate_DecodesVerdict(t *testing.T) {
	completer := mock.NewMockCompleter()
	var seenPrompt string
	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		seenPrompt = user
		return `{
			"overall_score": 8,
			"precision": 0.5,
			"issues": ["location mismatch for #2"],
			"feedback": "mostly relevant",
			"suggestions": ["expand location aliases"]
		}`, nil
	}
	e := setupEvaluator(t, completer)

	eval := e.Evaluate(context.Background(), "ML engineers", emptyInterp(), finalResultsFixture())
	require.NotNil(t, eval)
	assert.InDelta(t, 8, eval.OverallScore, 1e-9)
	assert.InDelta(t, 0.5, eval.Precision, 1e-9)
	assert.Equal(t, []string{"location mismatch for #2"}, eval.Issues)
	assert.Equal(t, "mostly relevant", eval.Feedback)

	// The judge sees the stored profile summaries, not bare IDs
	assert.Contains(t, seenPrompt, "#1: Ada - ML engineer at Google (score: 0.90)")
	assert.Contains(t, seenPrompt, "#2: Grace - Backend engineer (score: 0.70)")
}

func TestEvaluate_EmptyResultsScoreZero(t *testing.T) {
	completer := mock.NewMockCompleter()
	e := setupEvaluator(t, completer)

	eval := e.Evaluate(context.Background(), "nobody", emptyInterp(), nil)
	require.NotNil(t, eval)
	assert.Zero(t, eval.OverallScore)
	assert.Equal(t, []string{"empty_results"}, eval.Issues)
	assert.Equal(t, 0, completer.CallCount())
}

func TestEvaluate_FailsSoftOnCompleterError(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("model unavailable")
	}
	e := setupEvaluator(t, completer)

	eval := e.Evaluate(context.Background(), "q", emptyInterp(), finalResultsFixture())
	require.NotNil(t, eval)
	assert.InDelta(t, evalNeutralScore, eval.OverallScore, 1e-9)
}

func TestEvaluate_FailsSoftOnUndecodableResponse(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		return "these results look fine to me", nil
	}
	e := setupEvaluator(t, completer)

	eval := e.Evaluate(context.Background(), "q", emptyInterp(), finalResultsFixture())
	require.NotNil(t, eval)
	assert.InDelta(t, evalNeutralScore, eval.OverallScore, 1e-9)
}

func TestEvaluate_MissingProfilesFallBackToIDs(t *testing.T) {
	completer := mock.NewMockCompleter()
	var seenPrompt string
	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		seenPrompt = user
		return `{"overall_score": 6, "precision": 1}`, nil
	}
	e := setupEvaluator(t, completer)

	results := []core.FinalResult{{PersonID: "ghost", Score: 0.4}}
	eval := e.Evaluate(context.Background(), "q", emptyInterp(), results)
	require.NotNil(t, eval)
	assert.Contains(t, seenPrompt, "#1: ghost -")
}

func TestEvaluate_CapsResultsShownToJudge(t *testing.T) {
	completer := mock.NewMockCompleter()
	var seenPrompt string
	completer.CompleteFunc = func(ctx context.Context, system, user string) (string, error) {
		seenPrompt = user
		return `{"overall_score": 7}`, nil
	}
	e := setupEvaluator(t, completer)

	results := make([]core.FinalResult, evalResultLimit+3)
	for i := range results {
		results[i] = core.FinalResult{PersonID: "p1", Score: 0.5}
	}
	e.Evaluate(context.Background(), "q", emptyInterp(), results)
	assert.Contains(t, seenPrompt, "#10:")
	assert.NotContains(t, seenPrompt, "#11:")
}
