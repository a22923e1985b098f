package badger

import (
	"context"
	"testing"

	"github.com/poiesic/bracee/core"
	"github.com/poiesic/bracee/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (storage.VectorStore, storage.ProfileRepository) {
	t.Helper()
	vectors, profiles, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return vectors, profiles
}

func TestVectorStore_UpsertAndQuery(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	items := []*storage.Item{
		{ID: "skills:p1:0", Vector: []float32{1, 0, 0}, Metadata: map[string]string{"person_id": "p1"}},
		{ID: "skills:p2:0", Vector: []float32{0.9, 0.1, 0}, Metadata: map[string]string{"person_id": "p2"}},
		{ID: "skills:p3:0", Vector: []float32{0, 1, 0}, Metadata: map[string]string{"person_id": "p3"}},
	}
	require.NoError(t, store.Upsert(ctx, core.FacetSkills, items...))

	matches, err := store.Query(ctx, core.FacetSkills, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Closest vector first
	assert.Equal(t, "skills:p1:0", matches[0].ID)
	assert.Equal(t, "skills:p2:0", matches[1].ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.Equal(t, "p1", matches[0].Metadata["person_id"])
}

func TestVectorStore_NamespaceIsolation(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	vec := []float32{1, 0, 0}
	require.NoError(t, store.Upsert(ctx, core.FacetSkills,
		&storage.Item{ID: "skills:p1:0", Vector: vec}))
	require.NoError(t, store.Upsert(ctx, core.FacetEducation,
		&storage.Item{ID: "education:p2:0", Vector: vec}))

	matches, err := store.Query(ctx, core.FacetSkills, vec, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "skills:p1:0", matches[0].ID)

	matches, err = store.Query(ctx, core.FacetEducation, vec, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "education:p2:0", matches[0].ID)
}

func TestVectorStore_UpsertOverwrites(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	item := &storage.Item{ID: "companies:p1:0", Vector: []float32{1, 0}}
	require.NoError(t, store.Upsert(ctx, core.FacetCompanies, item))
	require.NoError(t, store.Upsert(ctx, core.FacetCompanies, item))

	count, err := store.Count(ctx, core.FacetCompanies)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorStore_Reset(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	vec := []float32{1, 0}
	require.NoError(t, store.Upsert(ctx, core.FacetSkills,
		&storage.Item{ID: "skills:p1:0", Vector: vec}))
	require.NoError(t, store.Upsert(ctx, core.FacetLocation,
		&storage.Item{ID: "location:p1:0", Vector: vec}))

	require.NoError(t, store.Reset(ctx, core.FacetSkills))

	count, err := store.Count(ctx, core.FacetSkills)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Other namespaces untouched
	count, err = store.Count(ctx, core.FacetLocation)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorStore_QueryValidation(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.Query(ctx, core.FacetSkills, []float32{1}, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidTopK)

	_, err = store.Query(ctx, core.Facet("bogus"), []float32{1}, 5)
	assert.ErrorIs(t, err, core.ErrUnknownFacet)
}

func TestVectorStore_QueryEmptyNamespace(t *testing.T) {
	store, _ := setupStore(t)

	matches, err := store.Query(context.Background(), core.FacetFreeText, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVectorStore_Closed(t *testing.T) {
	vectors, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	err = vectors.Upsert(context.Background(), core.FacetSkills,
		&storage.Item{ID: "skills:p1:0", Vector: []float32{1}})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = vectors.Query(context.Background(), core.FacetSkills, []float32{1}, 5)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled equal direction", []float32{2, 0}, []float32{5, 0}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}
