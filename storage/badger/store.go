package badger

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/storage"
)

// VectorStore implements storage.VectorStore for BadgerDB.
// Similarity search is a brute-force cosine scan over the facet's
// namespace. At people-search corpus sizes (thousands to low millions of
// chunks per facet) this stays well inside interactive latency without
// the operational weight of an ANN index.
type VectorStore struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorStore = (*VectorStore)(nil)

// NewVectorStore creates a vector store on top of an open backend.
//
// Returns storage.VectorStore interface to enforce abstraction.
func NewVectorStore(backend *Backend) storage.VectorStore {
	return &VectorStore{
		backend: backend,
		logger:  slog.Default().With("component", "badger-vectorstore"),
	}
}

// Upsert writes items into the facet's namespace, overwriting existing IDs.
func (s *VectorStore) Upsert(ctx context.Context, facet core.Facet, items ...*storage.Item) error {
	if err := core.ValidateFacet(facet); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(items) == 0 {
		return nil
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			key := makeItemKey(facet, item.ID)
			if err := tx.Set(key, storage.MarshalItem(item)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query finds the topK most similar items within the facet's namespace.
func (s *VectorStore) Query(ctx context.Context, facet core.Facet, vector []float32, topK int) ([]*storage.Match, error) {
	if err := core.ValidateFacet(facet); err != nil {
		return nil, err
	}
	if topK < 1 {
		return nil, storage.ErrInvalidTopK
	}
	if s.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var matches []*storage.Match
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeNamespacePrefix(facet)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var item *storage.Item
			err := iter.Item().Value(func(val []byte) error {
				var err error
				item, err = storage.UnmarshalItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if item == nil || len(item.Vector) == 0 {
				continue
			}

			matches = append(matches, &storage.Match{
				ID:       item.ID,
				Score:    cosineSimilarity(vector, item.Vector),
				Metadata: item.Metadata,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *storage.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Reset removes every item under the facet's namespace.
func (s *VectorStore) Reset(ctx context.Context, facet core.Facet) error {
	if err := core.ValidateFacet(facet); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	s.logger.Info("resetting namespace", "facet", facet)
	return s.backend.DropPrefix(makeNamespacePrefix(facet))
}

// Count returns the number of items under the facet's namespace.
func (s *VectorStore) Count(ctx context.Context, facet core.Facet) (int, error) {
	if err := core.ValidateFacet(facet); err != nil {
		return 0, err
	}
	if s.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeNamespacePrefix(facet)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Close is a no-op; the backend lifecycle is owned by the caller.
func (s *VectorStore) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Embedding providers don't all normalize their outputs, so the norms are
// computed rather than assumed.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
