package storage

import (
	"context"

	"github.com/poiesic/bracee/core"
)

// Item is a single embedded chunk stored in a facet namespace.
// ID must be unique within the namespace; re-upserting the same ID
// overwrites the previous value.
type Item struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Match is a single similarity hit returned by VectorStore.Query.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// VectorStore provides vector storage and similarity search over isolated
// facet namespaces. Implementations must be thread-safe and must never let
// a query against one facet return items stored under another.
type VectorStore interface {
	// Upsert writes one or more items into the facet's namespace.
	// Existing items with the same ID are overwritten, making
	// repeated ingestion of the same data idempotent.
	Upsert(ctx context.Context, facet core.Facet, items ...*Item) error

	// Query finds the topK items most similar to the given vector within
	// the facet's namespace, ordered by similarity score (highest first).
	// Returns ErrInvalidTopK if topK < 1.
	Query(ctx context.Context, facet core.Facet, vector []float32, topK int) ([]*Match, error)

	// Reset removes every item stored under the facet's namespace.
	// Other namespaces are untouched.
	Reset(ctx context.Context, facet core.Facet) error

	// Count returns the number of items stored under the facet's namespace.
	Count(ctx context.Context, facet core.Facet) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// ProfileRepository provides operations for managing person profiles.
// Profiles carry the display fields that searches return alongside scores,
// plus the per-facet source values used when reranking.
type ProfileRepository interface {
	// PutProfiles stores one or more profiles, overwriting any
	// existing profile with the same ID.
	PutProfiles(ctx context.Context, profiles ...*core.Profile) error

	// GetProfile retrieves a single profile by person ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetProfile(ctx context.Context, id string) (*core.Profile, error)

	// GetProfiles retrieves multiple profiles by their IDs.
	// Returns only the profiles that exist (no error for missing profiles).
	GetProfiles(ctx context.Context, ids ...string) ([]*core.Profile, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
