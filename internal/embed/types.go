// Package embed defines the pluggable embedding capabilities filex uses to
// turn text chunks and images into vectors, plus a deterministic built-in
// embedder that needs no external model.
package embed

import (
	"context"
	"math"
)

// Batch size and cache defaults shared by embedder implementations.
const (
	DefaultBatchSize         = 32
	DefaultEmbeddingCacheSize = 1000
)

// TextDimensions is the vector width produced by the built-in text embedder.
const TextDimensions = 256

// ImageDimensions is the vector width produced by the built-in image embedder.
const ImageDimensions = 256

// TextEmbedder turns text chunks into vectors.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelName() string
	Available(ctx context.Context) bool
	Close() error
}

// ImageEmbedder turns image files into vectors, and also exposes a
// text-to-image-space embedding so a single text query can search the image
// index (cross-modal search). Scores from this function are not calibrated
// against the text index's own scores.
type ImageEmbedder interface {
	EmbedImage(ctx context.Context, path string) ([]float32, error)
	EmbedTextQuery(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	ModelName() string
	Available(ctx context.Context) bool
	Close() error
}

// normalizeVector L2-normalizes a vector. A zero vector is returned as-is.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}
