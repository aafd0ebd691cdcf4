package embed

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muxite/filex/internal/ferrors"
)

func TestStaticTextEmbedderDeterministic(t *testing.T) {
	e := NewStaticTextEmbedder()
	ctx := context.Background()

	v1, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	v2, err := e.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, v1, TextDimensions)
}

func TestStaticTextEmbedderDifferentTextsDiffer(t *testing.T) {
	e := NewStaticTextEmbedder()
	ctx := context.Background()

	v1, _ := e.Embed(ctx, "apples and oranges")
	v2, _ := e.Embed(ctx, "quantum physics lecture")
	assert.NotEqual(t, v1, v2)
}

func TestStaticTextEmbedderEmptyTextFailsWithInvalidArgument(t *testing.T) {
	e := NewStaticTextEmbedder()

	_, err := e.Embed(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeInvalidInput, ferrors.GetCode(err))

	_, err = e.Embed(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, ferrors.ErrCodeInvalidInput, ferrors.GetCode(err))
}

func TestStaticTextEmbedderIsNormalized(t *testing.T) {
	e := NewStaticTextEmbedder()
	v, err := e.Embed(context.Background(), "some meaningful content here")
	require.NoError(t, err)

	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4)
}

func TestStaticTextEmbedderEmbedBatch(t *testing.T) {
	e := NewStaticTextEmbedder()
	results, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestStaticTextEmbedderCloseMakesUnavailable(t *testing.T) {
	e := NewStaticTextEmbedder()
	assert.True(t, e.Available(context.Background()))
	require.NoError(t, e.Close())
	assert.False(t, e.Available(context.Background()))

	_, err := e.Embed(context.Background(), "x")
	assert.Error(t, err)
}
