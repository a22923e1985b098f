package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/query"
)

const defaultTopK = 10

// Searcher runs the full query pipeline: interpretation, per-facet
// retrieval, fusion, and optional LLM reranking.
type Searcher struct {
	normalizer *query.Normalizer
	retriever  *Retriever
	reranker   *Reranker
	topK       int
	rerank     bool
	logger     *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher) error

// WithTopK sets the default number of final results per query.
func WithTopK(topK int) SearcherOption {
	return func(s *Searcher) error {
		if topK > 0 {
			s.topK = topK
		}
		return nil
	}
}

// WithReranking toggles the LLM reranking stage.
func WithReranking(enabled bool) SearcherOption {
	return func(s *Searcher) error {
		s.rerank = enabled
		return nil
	}
}

// WithSearcherLogger sets a custom logger.
func WithSearcherLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) error {
		s.logger = logger.With("component", "searcher")
		return nil
	}
}

// NewSearcher creates a searcher from its pipeline stages. The reranker
// may be nil, which disables reranking regardless of options.
func NewSearcher(normalizer *query.Normalizer, retriever *Retriever, reranker *Reranker, opts ...SearcherOption) (*Searcher, error) {
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}
	if retriever == nil {
		return nil, ErrVectorStoreRequired
	}

	s := &Searcher{
		normalizer: normalizer,
		retriever:  retriever,
		reranker:   reranker,
		topK:       defaultTopK,
		rerank:     reranker != nil,
		logger:     slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SearchOptions holds per-query overrides.
type SearchOptions struct {
	// TopK overrides the searcher's default result count when positive.
	TopK int
	// DisableRerank skips the LLM judge for this query.
	DisableRerank bool
}

// Search runs a query through the full pipeline.
// Returns core.ErrInvalidQuery for blank input; degraded stages (LLM down,
// a namespace failing) reduce result quality but don't error.
func (s *Searcher) Search(ctx context.Context, rawQuery string, opts *SearchOptions) (*core.QueryResult, error) {
	return s.SearchWithMonitor(ctx, rawQuery, opts, nil)
}

// SearchWithMonitor runs a query with monitoring callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, rawQuery string, opts *SearchOptions, monitor SearchMonitor) (*core.QueryResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if opts == nil {
		opts = &SearchOptions{}
	}
	topK := s.topK
	if opts.TopK > 0 {
		topK = opts.TopK
	}

	monitor.Start(rawQuery)

	// 1. Interpret the query
	interp, err := s.normalizer.Normalize(ctx, rawQuery)
	if err != nil {
		return nil, err
	}
	if interp.Degraded {
		s.logger.Warn("running with degraded interpretation", "query", rawQuery)
	}
	monitor.AfterInterpretation(interp)

	// 2. Retrieve candidates per facet
	retrieval, err := s.retriever.Retrieve(ctx, interp)
	if err != nil {
		return nil, err
	}
	for facet, cands := range retrieval.Candidates {
		monitor.AfterFacetRetrieval(facet, cands)
	}
	for _, facet := range retrieval.Degraded {
		s.logger.Warn("facet degraded for query", "facet", facet, "query", rawQuery)
		monitor.FacetDegraded(facet, nil)
	}

	// 3. Fuse
	fused := Fuse(interp, retrieval.Candidates)
	monitor.AfterFusion(fused)

	// 4. Rerank
	if s.rerank && s.reranker != nil && !opts.DisableRerank {
		fused = s.reranker.Rerank(ctx, interp.RawQuery, interp, fused)
	} else {
		monitor.RerankSkipped("reranking disabled")
	}

	// 5. Trim and assemble
	if len(fused) > topK {
		fused = fused[:topK]
	}
	results := make([]core.FinalResult, len(fused))
	for i, f := range fused {
		results[i] = core.FinalResult{PersonID: f.PersonID, Score: f.Score}
	}
	monitor.AfterRerank(results)
	monitor.Finish(results)

	return &core.QueryResult{
		Query:   rawQuery,
		Results: results,
	}, nil
}
