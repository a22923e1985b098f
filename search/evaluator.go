package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/bracee/ai"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/llmjson"
	"github.com/poiesic/bracee/storage"
)

const (
	// evalResultLimit caps how many results are shown to the quality judge.
	evalResultLimit = 10

	// evalHeadlineLimit truncates headlines in result summaries.
	evalHeadlineLimit = 80

	// evalNeutralScore is reported when the judge's verdict is unusable.
	evalNeutralScore = 5
)

// Evaluation is the quality judge's verdict on one query's results.
type Evaluation struct {
	// OverallScore rates the result set from 0 (useless) to 10 (perfect).
	OverallScore float64 `json:"overall_score"`

	// Precision estimates the fraction of results that are relevant.
	Precision float64 `json:"precision"`

	// Issues lists the specific problems the judge found, e.g. education
	// leakage or AND/OR confusion.
	Issues []string `json:"issues"`

	// Feedback is free-form commentary on the result set.
	Feedback string `json:"feedback"`

	// Suggestions are concrete retrieval improvements the judge proposes.
	Suggestions []string `json:"suggestions"`
}

// Evaluator asks the completion model to grade a result set against the
// query intent. It is an offline quality tool, not part of the serving
// path; batch runs use it to spot systematic retrieval problems.
//
// Evaluation fails soft: a broken judge yields a neutral verdict, never an
// error, so a batch run always completes.
type Evaluator struct {
	completer ai.Completer
	profiles  storage.ProfileRepository
	logger    *slog.Logger
}

// NewEvaluator creates a result-quality evaluator.
func NewEvaluator(completer ai.Completer, profiles storage.ProfileRepository) (*Evaluator, error) {
	if completer == nil {
		return nil, ErrAIProviderRequired
	}
	if profiles == nil {
		return nil, ErrProfileRepositoryRequired
	}
	return &Evaluator{
		completer: completer,
		profiles:  profiles,
		logger:    slog.Default().With("component", "evaluator"),
	}, nil
}

// Evaluate grades the results for a query. An empty result set scores zero
// without consulting the model; any judge failure yields a neutral verdict.
func (e *Evaluator) Evaluate(ctx context.Context, rawQuery string, interp *core.Interpretation, results []core.FinalResult) *Evaluation {
	if len(results) == 0 {
		return &Evaluation{
			OverallScore: 0,
			Feedback:     "No results returned",
			Issues:       []string{"empty_results"},
		}
	}

	top := results
	if len(top) > evalResultLimit {
		top = top[:evalResultLimit]
	}

	response, err := e.completer.Complete(ctx, evalSystemPrompt,
		evalUserPrompt(rawQuery, interp, e.summarize(ctx, top)))
	if err != nil {
		e.logger.Warn("evaluation failed soft", "err", err)
		return neutralEvaluation()
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(llmjson.Sanitize(response)), &eval); err != nil {
		e.logger.Warn("evaluation response undecodable", "err", err)
		return neutralEvaluation()
	}
	return &eval
}

// summarize renders one line per result for the judge. Results without a
// stored profile fall back to their bare ID.
func (e *Evaluator) summarize(ctx context.Context, results []core.FinalResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.PersonID
	}

	byID := make(map[string]*core.Profile)
	profiles, err := e.profiles.GetProfiles(ctx, ids...)
	if err != nil {
		e.logger.Warn("profiles unavailable for evaluation", "err", err)
	}
	for _, p := range profiles {
		byID[p.ID] = p
	}

	lines := make([]string, len(results))
	for i, r := range results {
		name, headline := r.PersonID, ""
		if p, ok := byID[r.PersonID]; ok {
			name = p.Name
			headline = truncateRunes(p.Headline, evalHeadlineLimit)
		}
		lines[i] = fmt.Sprintf("#%d: %s - %s (score: %.2f)", i+1, name, headline, r.Score)
	}
	return lines
}

func neutralEvaluation() *Evaluation {
	return &Evaluation{
		OverallScore: evalNeutralScore,
		Feedback:     "Could not parse evaluation",
		Issues:       []string{},
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
