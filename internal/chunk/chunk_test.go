package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixedSizeChunkerValidation(t *testing.T) {
	_, err := NewFixedSizeChunker(0, 0)
	assert.Error(t, err)

	_, err = NewFixedSizeChunker(10, 10)
	assert.Error(t, err)

	_, err = NewFixedSizeChunker(10, -1)
	assert.Error(t, err)

	c, err := NewFixedSizeChunker(10, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Size)
}

func TestFixedSizeChunkerSplitsWithOverlap(t *testing.T) {
	c, err := NewFixedSizeChunker(5, 2)
	require.NoError(t, err)

	text := strings.Repeat("a", 13)
	chunks := c.Chunk(text)
	assert.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch), 5)
	}
}

func TestFixedSizeChunkerSkipsWhitespaceOnlyWindows(t *testing.T) {
	c, err := NewFixedSizeChunker(3, 0)
	require.NoError(t, err)

	chunks := c.Chunk("ab   cd")
	for _, ch := range chunks {
		assert.NotEqual(t, "", strings.TrimSpace(ch))
	}
}

func TestFixedSizeChunkerFallsBackToWholeText(t *testing.T) {
	c, err := NewFixedSizeChunker(3, 0)
	require.NoError(t, err)

	chunks := c.Chunk("   ")
	assert.Equal(t, []string{"   "}, chunks)
}

func TestFixedSizeChunkerEstimate(t *testing.T) {
	c, err := NewFixedSizeChunker(10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, c.EstimateChunkCount(0))
	assert.Equal(t, 1, c.EstimateChunkCount(10))
	assert.Equal(t, 2, c.EstimateChunkCount(11))
}

func TestNewSentenceAwareChunkerDefaultsMax(t *testing.T) {
	c, err := NewSentenceAwareChunker(100, 0)
	require.NoError(t, err)
	assert.Equal(t, 200, c.Max)
}

func TestNewSentenceAwareChunkerValidation(t *testing.T) {
	_, err := NewSentenceAwareChunker(0, 0)
	assert.Error(t, err)

	_, err = NewSentenceAwareChunker(100, 50)
	assert.Error(t, err)
}

func TestSentenceAwareChunkerGroupsSentences(t *testing.T) {
	c, err := NewSentenceAwareChunker(20, 40)
	require.NoError(t, err)

	text := "This is one. This is two. This is three. This is four."
	chunks := c.Chunk(text)
	assert.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch), 40+10) // allow small slack from join spacing
	}
}

func TestSentenceAwareChunkerClosesBeforeExceedingTarget(t *testing.T) {
	c, err := NewSentenceAwareChunker(30, 60)
	require.NoError(t, err)

	text := "This is one. This is two. This is three. This is four."
	chunks := c.Chunk(text)

	// Adding "This is three." to the first chunk would push it past Target
	// (25 + 1 + 14 = 40 > 30), so it must close the first chunk and start the
	// second chunk with the overflowing sentence rather than stuffing it in.
	assert.Equal(t, []string{
		"This is one. This is two.",
		"This is three. This is four.",
	}, chunks)
}

func TestSentenceAwareChunkerNeverExceedsMax(t *testing.T) {
	c, err := NewSentenceAwareChunker(5, 15)
	require.NoError(t, err)

	text := "This is one. This is two. This is three. This is four."
	chunks := c.Chunk(text)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len(ch), 15)
	}
}

func TestSentenceAwareChunkerNoSentenceBoundaryFallsBack(t *testing.T) {
	c, err := NewSentenceAwareChunker(10, 20)
	require.NoError(t, err)

	chunks := c.Chunk("no punctuation here at all")
	assert.Equal(t, []string{"no punctuation here at all"}, chunks)
}

func TestSentenceAwareChunkerEmptyText(t *testing.T) {
	c, err := NewSentenceAwareChunker(10, 20)
	require.NoError(t, err)
	assert.Nil(t, c.Chunk("   "))
}
