package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/poiesic/bracee/ai"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/llmjson"
	"github.com/poiesic/bracee/storage"
)

const defaultRerankPool = 20

// Reranker asks the completion model to judge fused candidates against the
// query intent and rescore them.
//
// Reranking fails open: any failure (model unreachable, undecodable
// response, missing profiles) returns the fused order untouched. A broken
// judge must never make results worse than no judge.
type Reranker struct {
	completer ai.Completer
	profiles  storage.ProfileRepository
	poolSize  int
	logger    *slog.Logger
}

// NewReranker creates a reranker. poolSize caps how many candidates are
// sent to the judge per query.
func NewReranker(completer ai.Completer, profiles storage.ProfileRepository, poolSize int) (*Reranker, error) {
	if completer == nil {
		return nil, ErrAIProviderRequired
	}
	if profiles == nil {
		return nil, ErrProfileRepositoryRequired
	}
	if poolSize < 1 {
		poolSize = defaultRerankPool
	}
	return &Reranker{
		completer: completer,
		profiles:  profiles,
		poolSize:  poolSize,
		logger:    slog.Default().With("component", "reranker"),
	}, nil
}

// rerankScoreWire mirrors one element of the judge's JSON array output.
type rerankScoreWire struct {
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Rerank rescores the top fused candidates. The returned slice is sorted
// by judge score descending; zero-scored candidates (explicit intent
// misses) are dropped. On any failure the fused order is returned as-is.
func (r *Reranker) Rerank(ctx context.Context, rawQuery string, interp *core.Interpretation, fused []core.FusedResult) []core.FusedResult {
	if len(fused) == 0 {
		return fused
	}

	pool := fused
	if len(pool) > r.poolSize {
		pool = pool[:r.poolSize]
	}

	ids := make([]string, len(pool))
	for i, f := range pool {
		ids[i] = f.PersonID
	}
	profiles, err := r.profiles.GetProfiles(ctx, ids...)
	if err != nil || len(profiles) == 0 {
		r.logger.Warn("reranking skipped, profiles unavailable", "err", err)
		return fused
	}

	// Keep pool and profile summaries index-aligned
	byID := make(map[string]*core.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	summaries := make([]*core.Profile, len(pool))
	for i, f := range pool {
		if p, ok := byID[f.PersonID]; ok {
			summaries[i] = p
		} else {
			summaries[i] = &core.Profile{ID: f.PersonID}
		}
	}

	response, err := r.completer.Complete(ctx, rerankSystemPrompt, rerankUserPrompt(rawQuery, interp, summaries))
	if err != nil {
		r.logger.Warn("reranking failed open", "err", err)
		return fused
	}

	var scores []rerankScoreWire
	if err := json.Unmarshal([]byte(llmjson.Sanitize(response)), &scores); err != nil {
		r.logger.Warn("reranking response undecodable, failing open", "err", err)
		return fused
	}

	reranked := make([]core.FusedResult, 0, len(scores))
	for _, s := range scores {
		// The output schema indexes candidates zero-based.
		idx := s.Index
		if idx < 0 || idx >= len(pool) {
			continue
		}
		if s.Score <= 0 {
			continue
		}
		reranked = append(reranked, core.FusedResult{
			PersonID: pool[idx].PersonID,
			Score:    s.Score,
			Facets:   pool[idx].Facets,
		})
	}
	if len(reranked) == 0 {
		r.logger.Warn("reranking produced no usable scores, failing open")
		return fused
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})
	return reranked
}
