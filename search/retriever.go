package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/bracee/ai"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/retry"
	"github.com/poiesic/bracee/storage"
)

const (
	defaultCandidatePool = 100
	defaultFallbackPool  = 50
)

// Retriever fans a structured interpretation out across the referenced
// facet namespaces and collects candidates from each. Facets run
// concurrently on a shared worker pool; one facet failing does not abort
// the others, it just marks that facet degraded.
type Retriever struct {
	store         storage.VectorStore
	embedder      ai.Embedder
	pool          *ants.Pool
	policy        retry.Policy
	candidatePool int
	fallbackPool  int
	logger        *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever) error

// WithCandidatePool sets how many raw matches each facet contributes.
func WithCandidatePool(size int) RetrieverOption {
	return func(r *Retriever) error {
		if size > 0 {
			r.candidatePool = size
		}
		return nil
	}
}

// WithFallbackPool sets the pool size for the free-text fallback path.
func WithFallbackPool(size int) RetrieverOption {
	return func(r *Retriever) error {
		if size > 0 {
			r.fallbackPool = size
		}
		return nil
	}
}

// WithRetrieverRetryPolicy sets the retry policy for embed and query calls.
func WithRetrieverRetryPolicy(policy retry.Policy) RetrieverOption {
	return func(r *Retriever) error {
		r.policy = policy
		return nil
	}
}

// WithRetrieverLogger sets a custom logger.
func WithRetrieverLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) error {
		r.logger = logger.With("component", "retriever")
		return nil
	}
}

// NewRetriever creates a retriever. poolSize bounds facet-level concurrency;
// a search touches at most one goroutine per facet.
func NewRetriever(store storage.VectorStore, embedder ai.Embedder, poolSize int, opts ...RetrieverOption) (*Retriever, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if embedder == nil {
		return nil, ErrAIProviderRequired
	}
	if poolSize < 1 {
		poolSize = len(core.AllFacets())
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Retriever{
		store:         store,
		embedder:      embedder,
		pool:          pool,
		policy:        retry.DefaultPolicy(),
		candidatePool: defaultCandidatePool,
		fallbackPool:  defaultFallbackPool,
		logger:        slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			pool.Release()
			return nil, err
		}
	}
	return r, nil
}

// Release releases the worker pool.
// The retriever should not be used after calling Release.
func (r *Retriever) Release() {
	r.pool.Release()
}

// RetrievalResult aggregates per-facet candidates plus the facets that
// failed and contributed nothing.
type RetrievalResult struct {
	Candidates map[core.Facet][]core.Candidate
	Degraded   []core.Facet
}

// Retrieve queries every facet the interpretation references, concurrently.
// An interpretation referencing no structured facet falls back to a single
// free-text search over the normalized query.
func (r *Retriever) Retrieve(ctx context.Context, interp *core.Interpretation) (*RetrievalResult, error) {
	facets := interp.ReferencedFacets()
	if len(facets) == 0 {
		facets = []core.Facet{core.FacetFreeText}
	}

	result := &RetrievalResult{
		Candidates: make(map[core.Facet][]core.Candidate, len(facets)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, facet := range facets {
		facet := facet
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			candidates, err := r.retrieveFacet(ctx, interp, facet)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("facet retrieval degraded", "facet", facet, "err", err)
				result.Degraded = append(result.Degraded, facet)
				return
			}
			result.Candidates[facet] = candidates
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	return result, nil
}

// retrieveFacet embeds the facet's query text, queries the namespace, and
// filters matches against the facet's terms.
func (r *Retriever) retrieveFacet(ctx context.Context, interp *core.Interpretation, facet core.Facet) ([]core.Candidate, error) {
	fq := interp.Facets[facet]
	queryText := facetQueryText(interp, facet, fq)
	topK := r.candidatePool
	if facet == core.FacetFreeText {
		topK = r.fallbackPool
	}

	var matches []*storage.Match
	err := r.policy.Do(ctx, func() error {
		vector, err := r.embedder.EmbedText(ctx, queryText)
		if err != nil {
			return err
		}
		matches, err = r.store.Query(ctx, facet, vector, topK)
		return err
	})
	if err != nil {
		return nil, err
	}

	return filterMatches(facet, fq, matches), nil
}

// facetQueryText renders the embedding query text for a facet. The fixed
// preambles steer the embedding toward the namespace's chunk phrasing.
func facetQueryText(interp *core.Interpretation, facet core.Facet, fq core.FacetQuery) string {
	switch facet {
	case core.FacetEducation:
		return "Studied at " + strings.Join(fq.Terms, " ")
	case core.FacetSkills:
		if interp.NormalizedQuery != "" {
			return "Skills: " + interp.NormalizedQuery
		}
		return "Skills and expertise in: " + strings.Join(fq.Terms, ", ")
	case core.FacetCompanies:
		return "Worked at " + strings.Join(fq.Terms, " ")
	case core.FacetLocation:
		return "Located in " + strings.Join(fq.Terms, " ")
	default:
		if len(fq.Terms) > 0 {
			return strings.Join(fq.Terms, " ")
		}
		return interp.NormalizedQuery
	}
}

// filterMatches converts raw matches into candidates, dropping matches
// whose stored metadata doesn't line up with any query term. Education,
// companies, and location carry exact metadata worth checking; skills and
// free text are purely semantic.
//
// Multiple chunks per person survive here deliberately: fusion needs the
// full per-person value set to verify conjunction groups.
func filterMatches(facet core.Facet, fq core.FacetQuery, matches []*storage.Match) []core.Candidate {
	terms := make([]string, len(fq.Terms))
	for i, t := range fq.Terms {
		terms[i] = strings.ToLower(t)
	}

	var candidates []core.Candidate
	for _, m := range matches {
		personID := m.Metadata["person_id"]
		if personID == "" {
			continue
		}
		if !matchesTerms(facet, terms, m.Metadata) {
			continue
		}
		candidates = append(candidates, core.Candidate{
			PersonID: personID,
			Facet:    facet,
			Score:    float64(m.Score),
			Metadata: m.Metadata,
		})
	}
	return candidates
}

// matchesTerms checks a match's metadata against the lowered query terms.
func matchesTerms(facet core.Facet, terms []string, metadata map[string]string) bool {
	if len(terms) == 0 {
		return true
	}
	switch facet {
	case core.FacetEducation:
		school := strings.ToLower(metadata["school"])
		for _, t := range terms {
			if strings.Contains(school, t) || strings.Contains(t, school) {
				return true
			}
		}
		return false
	case core.FacetCompanies:
		companies := strings.ToLower(metadata["companies"])
		for _, t := range terms {
			if strings.Contains(companies, t) {
				return true
			}
		}
		return false
	case core.FacetLocation:
		location := strings.ToLower(metadata["location"])
		for _, t := range terms {
			if strings.Contains(location, t) || strings.Contains(t, location) {
				return true
			}
		}
		return false
	default:
		// Skills and free text match semantically, not by metadata.
		return true
	}
}
