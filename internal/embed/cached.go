package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedTextEmbedder wraps a TextEmbedder with LRU caching so repeated
// queries (common for interactive search) skip recomputation.
type CachedTextEmbedder struct {
	inner TextEmbedder
	cache *lru.Cache[string, []float32]
}

// NewCachedTextEmbedder wraps inner with an LRU cache of the given size
// (falling back to DefaultEmbeddingCacheSize when size <= 0).
func NewCachedTextEmbedder(inner TextEmbedder, size int) *CachedTextEmbedder {
	if size <= 0 {
		size = DefaultEmbeddingCacheSize
	}
	cache, _ := lru.New[string, []float32](size)
	return &CachedTextEmbedder{inner: inner, cache: cache}
}

func (c *CachedTextEmbedder) cacheKey(text string) string {
	combined := text + "\x00" + c.inner.ModelName()
	hash := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(hash[:])
}

// Embed returns the cached embedding if present, else computes and caches it.
func (c *CachedTextEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, vec)
	return vec, nil
}

// EmbedBatch embeds texts, checking the cache for each individually.
func (c *CachedTextEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	results := make([][]float32, len(texts))
	uncachedIndices := make([]int, 0, len(texts))
	uncachedTexts := make([]string, 0, len(texts))

	for i, text := range texts {
		key := c.cacheKey(text)
		if vec, ok := c.cache.Get(key); ok {
			results[i] = vec
		} else {
			uncachedIndices = append(uncachedIndices, i)
			uncachedTexts = append(uncachedTexts, text)
		}
	}

	if len(uncachedTexts) == 0 {
		return results, nil
	}

	newEmbeddings, err := c.inner.EmbedBatch(ctx, uncachedTexts)
	if err != nil {
		return nil, err
	}

	for j, idx := range uncachedIndices {
		results[idx] = newEmbeddings[j]
		c.cache.Add(c.cacheKey(texts[idx]), newEmbeddings[j])
	}
	return results, nil
}

func (c *CachedTextEmbedder) Dimensions() int               { return c.inner.Dimensions() }
func (c *CachedTextEmbedder) ModelName() string             { return c.inner.ModelName() }
func (c *CachedTextEmbedder) Available(ctx context.Context) bool { return c.inner.Available(ctx) }
func (c *CachedTextEmbedder) Close() error                  { return c.inner.Close() }

// Inner returns the wrapped embedder.
func (c *CachedTextEmbedder) Inner() TextEmbedder { return c.inner }
