package query

import (
	"fmt"
	"testing"

	"github.com/poiesic/bracee/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretationCache_GetPut(t *testing.T) {
	cache := NewInterpretationCache(10)

	_, ok := cache.Get("stanford grads")
	assert.False(t, ok)

	in := &core.Interpretation{RawQuery: "stanford grads"}
	cache.Put("stanford grads", in)

	got, ok := cache.Get("stanford grads")
	require.True(t, ok)
	assert.Same(t, in, got)
}

func TestInterpretationCache_KeyNormalization(t *testing.T) {
	cache := NewInterpretationCache(10)
	in := &core.Interpretation{RawQuery: "Stanford Grads"}
	cache.Put("Stanford Grads", in)

	// Case and surrounding whitespace don't change the key
	got, ok := cache.Get("  stanford grads  ")
	require.True(t, ok)
	assert.Same(t, in, got)
}

func TestInterpretationCache_Eviction(t *testing.T) {
	cache := NewInterpretationCache(4)
	for i := 0; i < 4; i++ {
		q := fmt.Sprintf("query %d", i)
		cache.Put(q, &core.Interpretation{RawQuery: q})
	}
	require.Equal(t, 4, cache.Len())

	// Next insert evicts the oldest half
	cache.Put("query 4", &core.Interpretation{RawQuery: "query 4"})
	assert.Equal(t, 3, cache.Len())

	_, ok := cache.Get("query 0")
	assert.False(t, ok)
	_, ok = cache.Get("query 1")
	assert.False(t, ok)
	_, ok = cache.Get("query 3")
	assert.True(t, ok)
	_, ok = cache.Get("query 4")
	assert.True(t, ok)
}

func TestInterpretationCache_OverwriteDoesNotGrow(t *testing.T) {
	cache := NewInterpretationCache(10)
	cache.Put("q", &core.Interpretation{RawQuery: "q", Intent: "old"})
	cache.Put("q", &core.Interpretation{RawQuery: "q", Intent: "new"})

	assert.Equal(t, 1, cache.Len())
	got, ok := cache.Get("q")
	require.True(t, ok)
	assert.Equal(t, "new", got.Intent)
}

func TestInterpretationCache_Clear(t *testing.T) {
	cache := NewInterpretationCache(10)
	cache.Put("q", &core.Interpretation{RawQuery: "q"})
	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}
