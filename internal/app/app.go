// Package app wires together a single repository's components — catalog,
// blob store, vector indices, router, and embedders — into one handle that
// cmd/filex and internal/httpapi both build against, so neither has to
// know how a Manager is assembled.
package app

import (
	"fmt"
	"strings"

	"github.com/Muxite/filex/internal/blobstore"
	"github.com/Muxite/filex/internal/catalog"
	"github.com/Muxite/filex/internal/chunk"
	"github.com/Muxite/filex/internal/config"
	"github.com/Muxite/filex/internal/embed"
	"github.com/Muxite/filex/internal/extract"
	"github.com/Muxite/filex/internal/handler"
	"github.com/Muxite/filex/internal/manager"
	"github.com/Muxite/filex/internal/repo"
	"github.com/Muxite/filex/internal/vectorindex"
)

// Repo bundles an opened repository with everything needed to index and
// search it.
type Repo struct {
	Repo          *repo.Repository
	Config        *config.Config
	Manager       *manager.Manager
	TextEmbedder  embed.TextEmbedder
	ImageEmbedder embed.ImageEmbedder
}

// Open finds (or creates, if create is true) the .filex repository rooted
// at or above workTreeRoot, loads its configuration, and constructs the
// Manager plus both vector indices (loaded from disk if present).
func Open(workTreeRoot string, create bool) (*Repo, error) {
	r, err := repo.Find(workTreeRoot)
	if err != nil {
		if !create {
			return nil, err
		}
		r, err = repo.Create(workTreeRoot)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(r.WorkTreeRoot)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Open(r.CatalogPath())
	if err != nil {
		return nil, err
	}

	textIndex, err := vectorindex.Load(vectorindex.KindText,
		vectorindex.NpyPath(r.IndexDir(), vectorindex.KindText), vectorindex.MetaPath(r.IndexDir(), vectorindex.KindText))
	if err != nil {
		return nil, err
	}
	imageIndex, err := vectorindex.Load(vectorindex.KindImage,
		vectorindex.NpyPath(r.IndexDir(), vectorindex.KindImage), vectorindex.MetaPath(r.IndexDir(), vectorindex.KindImage))
	if err != nil {
		return nil, err
	}

	chunker, err := buildChunker(cfg.Chunking)
	if err != nil {
		return nil, err
	}

	rawTextEmbedder := embed.NewStaticTextEmbedder()
	cachedTextEmbedder := embed.NewCachedTextEmbedder(rawTextEmbedder, cfg.Embeddings.CacheSize)
	textEmbedder := embed.NewBreakerTextEmbedder(cachedTextEmbedder, cfg.Embeddings.MaxConsecutiveFailures)
	imageEmbedder := embed.NewStaticImageEmbedder()

	router := handler.NewRouter(
		&handler.TextHandler{Extractor: extract.New(), Chunker: chunker, Embedder: textEmbedder},
		&handler.ImageHandler{Embedder: imageEmbedder},
	)

	blobs := blobstore.New(r.EmbeddingsDir(), r.MetadataDir())

	mgr := &manager.Manager{
		Repo:       r,
		Router:     router,
		Catalog:    cat,
		Blobs:      blobs,
		TextIndex:  textIndex,
		ImageIndex: imageIndex,
	}

	return &Repo{Repo: r, Config: cfg, Manager: mgr, TextEmbedder: textEmbedder, ImageEmbedder: imageEmbedder}, nil
}

func buildChunker(cfg config.ChunkingConfig) (chunk.Chunker, error) {
	switch strings.ToLower(cfg.Strategy) {
	case "sentence":
		return chunk.NewSentenceAwareChunker(cfg.SentenceTarget, cfg.SentenceMax)
	default:
		return chunk.NewFixedSizeChunker(cfg.FixedSize, cfg.FixedOverlap)
	}
}

// Save persists both vector indices to their conventional sidecar paths
// under index/. Callers should call this after any indexing run that
// mutated the in-memory indices.
func (a *Repo) Save() error {
	if err := a.Manager.TextIndex.Save(
		vectorindex.NpyPath(a.Repo.IndexDir(), vectorindex.KindText),
		vectorindex.MetaPath(a.Repo.IndexDir(), vectorindex.KindText),
	); err != nil {
		return err
	}
	return a.Manager.ImageIndex.Save(
		vectorindex.NpyPath(a.Repo.IndexDir(), vectorindex.KindImage),
		vectorindex.MetaPath(a.Repo.IndexDir(), vectorindex.KindImage),
	)
}

// Close releases the repository's catalog connection and embedders.
func (a *Repo) Close() error {
	var errs []string
	if err := a.Manager.Catalog.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := a.TextEmbedder.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := a.ImageEmbedder.Close(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("close repository: %s", strings.Join(errs, "; "))
	}
	return nil
}
