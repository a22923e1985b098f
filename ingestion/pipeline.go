package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/bracee/ai"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/retry"
	"github.com/poiesic/bracee/storage"
)

const defaultBatchSize = 32

// Pipeline turns person records into per-facet vectors and stored profiles.
// Chunks are embedded in batches and upserted concurrently over a worker
// pool; vector IDs are stable so re-ingestion is idempotent.
type Pipeline struct {
	store     storage.VectorStore
	profiles  storage.ProfileRepository
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	policy    retry.Policy
	progress  func(done, total int)
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per provider call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size > 0 {
			p.batchSize = size
		}
		return nil
	}
}

// WithRetryPolicy sets the retry policy for embedding and upsert calls.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(p *Pipeline) error {
		p.policy = policy
		return nil
	}
}

// WithProgress registers a callback invoked after each record's chunks are
// written. done counts completed records, total the whole run.
func WithProgress(fn func(done, total int)) Option {
	return func(p *Pipeline) error {
		p.progress = fn
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store storage.VectorStore,
	profiles storage.ProfileRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrVectorStoreRequired
	}
	if profiles == nil {
		return nil, ErrProfileRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		profiles:  profiles,
		embedder:  embedder,
		pool:      pool,
		batchSize: defaultBatchSize,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestOptions holds optional parameters for an ingestion run.
type IngestOptions struct {
	// Reset drops every facet namespace before ingesting.
	Reset bool
}

// Stats summarizes an ingestion run.
type Stats struct {
	Records int
	Chunks  int
}

// Ingest validates, chunks, embeds and stores the given records. Invalid
// records fail the run before anything is written. Embedding or storage
// failures for one record don't abort the rest; they are joined into the
// returned error.
func (p *Pipeline) Ingest(ctx context.Context, records []*core.PersonRecord, opts *IngestOptions) (*Stats, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	for _, record := range records {
		if err := core.ValidatePersonRecord(record); err != nil {
			return nil, err
		}
	}

	if opts.Reset {
		for _, facet := range core.AllFacets() {
			if err := p.store.Reset(ctx, facet); err != nil {
				return nil, fmt.Errorf("resetting %s namespace: %w", facet, err)
			}
		}
	}

	profiles := make([]*core.Profile, len(records))
	for i, record := range records {
		profiles[i] = buildProfile(record)
	}
	if err := p.profiles.PutProfiles(ctx, profiles...); err != nil {
		return nil, err
	}

	stats := &Stats{Records: len(records)}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	done := 0

	for _, record := range records {
		record := record
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			written, err := p.ingestRecord(ctx, record)

			mu.Lock()
			defer mu.Unlock()
			stats.Chunks += written
			if err != nil {
				errs = append(errs, fmt.Errorf("record %s: %w", record.ID, err))
			}
			done++
			if p.progress != nil {
				p.progress(done, len(records))
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()

	p.logger.Info("ingestion run complete",
		"records", stats.Records, "chunks", stats.Chunks, "failures", len(errs))
	return stats, errors.Join(errs...)
}

// ingestRecord chunks one record, embeds the chunk texts in batches, and
// upserts the vectors grouped by facet. Returns the number of chunks written.
func (p *Pipeline) ingestRecord(ctx context.Context, record *core.PersonRecord) (int, error) {
	chunks := buildChunks(record)
	p.logger.Debug("ingesting record", "person", record.ID, "chunks", len(chunks))

	written := 0
	for start := 0; start < len(chunks); start += p.batchSize {
		end := min(start+p.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.text
		}

		var embeddings [][]float32
		err := p.policy.Do(ctx, func() error {
			var embedErr error
			embeddings, embedErr = p.embedder.EmbedTexts(ctx, texts)
			return embedErr
		})
		if err != nil {
			return written, fmt.Errorf("embedding chunks: %w", err)
		}
		if len(embeddings) != len(batch) {
			return written, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(embeddings))
		}

		byFacet := make(map[core.Facet][]*storage.Item)
		for i, c := range batch {
			byFacet[c.facet] = append(byFacet[c.facet], &storage.Item{
				ID:       c.id,
				Vector:   embeddings[i],
				Metadata: c.metadata,
			})
		}
		for facet, items := range byFacet {
			err := p.policy.Do(ctx, func() error {
				return p.store.Upsert(ctx, facet, items...)
			})
			if err != nil {
				return written, fmt.Errorf("upserting %s vectors: %w", facet, err)
			}
			written += len(items)
		}
	}
	return written, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
