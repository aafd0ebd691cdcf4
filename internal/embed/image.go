package embed

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"sync"
)

// StaticImageEmbedder generates deterministic embeddings from raw image
// bytes by hashing fixed-size byte windows into a vector, and generates
// text-query embeddings through the same tokenize-and-hash path as
// StaticTextEmbedder so a text query can be compared against it. This is a
// stand-in for a real CLIP-style model: the two embedding spaces are not
// semantically aligned, only dimensionally compatible.
type StaticImageEmbedder struct {
	mu     sync.RWMutex
	closed bool
}

// NewStaticImageEmbedder creates a new deterministic image embedder.
func NewStaticImageEmbedder() *StaticImageEmbedder {
	return &StaticImageEmbedder{}
}

const imageWindowSize = 64

// EmbedImage reads path and hashes its bytes into a vector.
func (e *StaticImageEmbedder) EmbedImage(ctx context.Context, path string) ([]float32, error) {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, fmt.Errorf("embedder is closed")
	}
	e.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	vector := make([]float32, ImageDimensions)
	for start := 0; start < len(data); start += imageWindowSize {
		end := start + imageWindowSize
		if end > len(data) {
			end = len(data)
		}
		h := fnv.New64()
		_, _ = h.Write(data[start:end])
		vector[int(h.Sum64()%uint64(ImageDimensions))] += 1.0
	}

	return normalizeVector(vector), nil
}

// EmbedTextQuery embeds text into the image vector space so it can be
// compared against image vectors for cross-modal search.
func (e *StaticImageEmbedder) EmbedTextQuery(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	vector := make([]float32, ImageDimensions)
	if trimmed == "" {
		return vector, nil
	}

	for _, token := range filterStopWords(tokenize(trimmed)) {
		vector[hashToIndex(token, ImageDimensions)] += tokenWeight
	}
	return normalizeVector(vector), nil
}

func (e *StaticImageEmbedder) Dimensions() int   { return ImageDimensions }
func (e *StaticImageEmbedder) ModelName() string { return "static-image" }

func (e *StaticImageEmbedder) Available(_ context.Context) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return !e.closed
}

func (e *StaticImageEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}
