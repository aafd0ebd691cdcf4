// Package handler routes a stat'd file to the processing strategy that
// turns it into chunks and embeddings: text extraction+chunking for text
// files, whole-image embedding for image files, or a metadata-only no-op
// for anything else.
package handler

import (
	"context"

	"github.com/Muxite/filex/internal/chunk"
	"github.com/Muxite/filex/internal/embed"
	"github.com/Muxite/filex/internal/extract"
	"github.com/Muxite/filex/internal/ferrors"
	"github.com/Muxite/filex/internal/finfo"
)

// Kind identifies which vector index a processed file's embeddings belong in.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Result is the outcome of processing one file.
type Result struct {
	Kind       Kind
	Chunks     []string
	Embeddings [][]float32
	// Skipped is true for files that were not processed (e.g. handled by
	// DefaultHandler). Skipped results still carry metadata upstream but
	// contribute nothing to a vector index.
	Skipped bool
	Reason  string
}

// Handler decides whether it can process a file and, if so, does so.
type Handler interface {
	CanHandle(meta *finfo.FileMetadata) bool
	Process(ctx context.Context, meta *finfo.FileMetadata) (*Result, error)
}

// TextHandler extracts text, chunks it, and embeds each chunk.
type TextHandler struct {
	Extractor *extract.Extractor
	Chunker   chunk.Chunker
	Embedder  embed.TextEmbedder
}

func (h *TextHandler) CanHandle(meta *finfo.FileMetadata) bool {
	return meta.IsTextType
}

func (h *TextHandler) Process(ctx context.Context, meta *finfo.FileMetadata) (*Result, error) {
	text, err := h.Extractor.ExtractText(meta.FilePath)
	if err != nil {
		return nil, err
	}

	chunks := h.Chunker.Chunk(text)
	if len(chunks) == 0 {
		return &Result{Kind: KindText, Chunks: nil, Embeddings: nil}, nil
	}

	embeddings, err := h.Embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeEmbedderUnavailable, "embed text chunks for "+meta.FilePath, err)
	}

	return &Result{Kind: KindText, Chunks: chunks, Embeddings: embeddings}, nil
}

// ImageHandler embeds the whole image as a single chunk whose "text" is the
// file path itself (there is nothing to chunk).
type ImageHandler struct {
	Embedder embed.ImageEmbedder
}

func (h *ImageHandler) CanHandle(meta *finfo.FileMetadata) bool {
	return meta.IsImageType
}

func (h *ImageHandler) Process(ctx context.Context, meta *finfo.FileMetadata) (*Result, error) {
	vec, err := h.Embedder.EmbedImage(ctx, meta.FilePath)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeEmbedderUnavailable, "embed image "+meta.FilePath, err)
	}

	return &Result{
		Kind:       KindImage,
		Chunks:     []string{meta.FilePath},
		Embeddings: [][]float32{vec},
	}, nil
}

// DefaultHandler matches any file not handled above; it only records that
// the file was seen, with no chunks or embeddings produced.
type DefaultHandler struct{}

func (h *DefaultHandler) CanHandle(meta *finfo.FileMetadata) bool { return true }

func (h *DefaultHandler) Process(ctx context.Context, meta *finfo.FileMetadata) (*Result, error) {
	return &Result{
		Skipped: true,
		Reason:  "no handler for extension " + meta.FileExtension,
	}, nil
}

// Router dispatches a file to the first handler in its list that can
// handle it. DefaultHandler should always be last since it matches anything.
type Router struct {
	Handlers []Handler
}

// NewRouter builds the standard text/image/default routing chain.
func NewRouter(text *TextHandler, image *ImageHandler) *Router {
	return &Router{Handlers: []Handler{text, image, &DefaultHandler{}}}
}

// Route processes meta through the first matching handler.
func (r *Router) Route(ctx context.Context, meta *finfo.FileMetadata) (*Result, error) {
	for _, h := range r.Handlers {
		if h.CanHandle(meta) {
			return h.Process(ctx, meta)
		}
	}
	return &Result{Skipped: true, Reason: "no handler matched"}, nil
}
