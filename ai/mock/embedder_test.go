package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedText_Deterministic(t *testing.T) {
	m := NewMockEmbedder()

	first, err := m.EmbedText(context.Background(), "golang engineer")
	require.NoError(t, err)
	second, err := m.EmbedText(context.Background(), "golang engineer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 384)
	assert.Equal(t, 2, m.CallCount())
}

func TestEmbedText_UnitNorm(t *testing.T) {
	m := NewMockEmbedder()

	vector, err := m.EmbedText(context.Background(), "frontend developer in London")
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-3)
}

func TestEmbedTexts_DistinctTextsDistinctVectors(t *testing.T) {
	m := NewMockEmbedder()

	vectors, err := m.EmbedTexts(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.NotEqual(t, vectors[0], vectors[1])
}
