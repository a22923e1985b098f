// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package bracee

import (
	"context"
	"log/slog"

	"github.com/poiesic/bracee/ai"
	"github.com/poiesic/bracee/ai/openai"
	"github.com/poiesic/bracee/config"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/ingestion"
	"github.com/poiesic/bracee/query"
	"github.com/poiesic/bracee/search"
	"github.com/poiesic/bracee/storage"
	"github.com/poiesic/bracee/storage/badger"
)

// Engine owns the full people-search stack: the badger backend, the
// per-facet vector store, the profile repository, the AI provider, and the
// query pipeline built on top of them.
type Engine struct {
	cfg        *config.Config
	backend    *badger.Backend
	store      storage.VectorStore
	profiles   storage.ProfileRepository
	provider   ai.AIProvider
	normalizer *query.Normalizer
	retriever  *search.Retriever
	searcher   *search.Searcher
	evaluator  *search.Evaluator
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	cfg      *config.Config
	provider ai.AIProvider
}

// WithConfig sets the engine configuration. Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) EngineOption {
	return func(o *engineOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithProvider injects an AI provider, replacing the OpenAI-compatible one
// built from the configuration.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// NewEngine opens the storage backend, connects the AI provider, and wires
// the query pipeline.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		cfg: config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	cfg := options.cfg

	provider := options.provider
	if provider == nil {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
			ai.WithCompletionHost(cfg.AI.CompletionHost),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithCompletionModel(cfg.AI.CompletionModel),
			ai.WithToken(cfg.AI.Token()),
		)
		var err error
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(cfg.Storage.Path, cfg.Storage.InMemory)
	if err != nil {
		provider.Close()
		return nil, err
	}

	store := badger.NewVectorStore(backend)
	profiles := badger.NewProfileRepository(backend)

	normalizer, err := query.NewNormalizer(provider.Completer())
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	retriever, err := search.NewRetriever(store, provider.Embedder(), len(core.AllFacets()),
		search.WithCandidatePool(cfg.Retrieval.CandidatePool),
		search.WithFallbackPool(cfg.Retrieval.FallbackPool),
	)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	var reranker *search.Reranker
	if cfg.Retrieval.RerankEnabled {
		reranker, err = search.NewReranker(provider.Completer(), profiles, cfg.Retrieval.RerankPool)
		if err != nil {
			retriever.Release()
			provider.Close()
			backend.Close()
			return nil, err
		}
	}

	searcher, err := search.NewSearcher(normalizer, retriever, reranker,
		search.WithTopK(cfg.Retrieval.TopK),
		search.WithReranking(cfg.Retrieval.RerankEnabled),
	)
	if err != nil {
		retriever.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	evaluator, err := search.NewEvaluator(provider.Completer(), profiles)
	if err != nil {
		retriever.Release()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		cfg:        cfg,
		backend:    backend,
		store:      store,
		profiles:   profiles,
		provider:   provider,
		normalizer: normalizer,
		retriever:  retriever,
		searcher:   searcher,
		evaluator:  evaluator,
		logger:     slog.Default(),
	}, nil
}

// Search runs a query through the full pipeline.
func (e *Engine) Search(ctx context.Context, rawQuery string, opts *search.SearchOptions) (*core.QueryResult, error) {
	return e.searcher.Search(ctx, rawQuery, opts)
}

// SearchWithMonitor runs a query with per-stage monitoring callbacks.
func (e *Engine) SearchWithMonitor(ctx context.Context, rawQuery string, opts *search.SearchOptions, monitor search.SearchMonitor) (*core.QueryResult, error) {
	return e.searcher.SearchWithMonitor(ctx, rawQuery, opts, monitor)
}

// Evaluate grades a query's results with the LLM quality judge. The
// interpretation comes from the normalizer, so a query evaluated right
// after being searched reuses the cached interpretation.
func (e *Engine) Evaluate(ctx context.Context, rawQuery string, results []core.FinalResult) (*search.Evaluation, error) {
	interp, err := e.normalizer.Normalize(ctx, rawQuery)
	if err != nil {
		return nil, err
	}
	return e.evaluator.Evaluate(ctx, rawQuery, interp, results), nil
}

// NewIngestionPipeline creates an ingestion pipeline over the engine's
// stores. Configured pool and batch sizes apply unless overridden by opts.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{
		ingestion.WithPoolSize(e.cfg.Ingestion.PoolSize),
		ingestion.WithBatchSize(e.cfg.Ingestion.BatchSize),
	}
	return ingestion.NewPipeline(e.store, e.profiles, e.provider.Embedder(), append(base, opts...)...)
}

// Ingest runs a one-shot ingestion of the given records.
func (e *Engine) Ingest(ctx context.Context, records []*core.PersonRecord, opts *ingestion.IngestOptions) (*ingestion.Stats, error) {
	pipeline, err := e.NewIngestionPipeline()
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()
	return pipeline.Ingest(ctx, records, opts)
}

// Reset drops every facet namespace and clears the interpretation cache.
// Stored profiles are kept; re-ingestion overwrites them.
func (e *Engine) Reset(ctx context.Context) error {
	for _, facet := range core.AllFacets() {
		if err := e.store.Reset(ctx, facet); err != nil {
			return err
		}
	}
	e.normalizer.Cache().Clear()
	return nil
}

// Counts reports the number of stored vectors per facet namespace.
func (e *Engine) Counts(ctx context.Context) (map[core.Facet]int, error) {
	counts := make(map[core.Facet]int, len(core.AllFacets()))
	for _, facet := range core.AllFacets() {
		n, err := e.store.Count(ctx, facet)
		if err != nil {
			return nil, err
		}
		counts[facet] = n
	}
	return counts, nil
}

// VectorStore returns the engine's per-facet vector store.
func (e *Engine) VectorStore() storage.VectorStore {
	return e.store
}

// ProfileRepository returns the engine's profile repository.
func (e *Engine) ProfileRepository() storage.ProfileRepository {
	return e.profiles
}

// Normalizer returns the engine's query normalizer.
func (e *Engine) Normalizer() *query.Normalizer {
	return e.normalizer
}

// Close releases the retriever pool, the AI provider and the storage
// backend. The engine should not be used after calling Close.
func (e *Engine) Close() error {
	e.retriever.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing vector store", "err", err)
		return err
	}
	if err := e.profiles.Close(); err != nil {
		e.logger.Error("error closing profile repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
