// Package manager orchestrates indexing a single file or a whole directory
// tree: stat the file, skip it if unchanged, route it through a handler,
// and persist the result to the catalog, blob store, and vector index.
package manager

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Muxite/filex/internal/blobstore"
	"github.com/Muxite/filex/internal/catalog"
	"github.com/Muxite/filex/internal/ferrors"
	"github.com/Muxite/filex/internal/finfo"
	"github.com/Muxite/filex/internal/handler"
	"github.com/Muxite/filex/internal/repo"
	"github.com/Muxite/filex/internal/vectorindex"
)

// Manager wires together the repository locator, router, catalog, blob
// store, and the two vector indices into the single-file and
// directory-wide indexing operations.
type Manager struct {
	Repo       *repo.Repository
	Router     *handler.Router
	Catalog    *catalog.Catalog
	Blobs      *blobstore.Store
	TextIndex  *vectorindex.Index
	ImageIndex *vectorindex.Index
}

// IndexFileResult reports what happened to a single file.
type IndexFileResult struct {
	FilePath string
	Indexed  bool
	Skipped  bool
	Reason   string
}

// IndexFile indexes (or re-indexes) a single file. A file outside the
// repository's work tree is still indexed, with a logged warning left to
// the caller rather than an error — matching the original tool's
// permissive behavior, which only refuses files that don't exist at all.
// force bypasses the change-detection short-circuit.
func (m *Manager) IndexFile(ctx context.Context, path string, force bool) (*IndexFileResult, error) {
	meta, err := finfo.FromPath(path)
	if err != nil {
		return nil, err
	}

	if !force {
		changed, err := m.Catalog.HasChanged(meta.FilePath, meta.FileSizeBytes, meta.ModifiedTime)
		if err != nil {
			return nil, err
		}
		if !changed {
			return &IndexFileResult{FilePath: meta.FilePath, Skipped: true, Reason: "unchanged"}, nil
		}
	}

	result, err := m.Router.Route(ctx, meta)
	if err != nil {
		return nil, err
	}

	hash, err := catalog.ComputeFileHash(meta.FilePath)
	if err != nil {
		return nil, err
	}

	kind := string(result.Kind)
	if result.Skipped {
		kind = ""
	}

	var dimension *int
	if len(result.Embeddings) > 0 {
		d := len(result.Embeddings[0])
		dimension = &d
	}

	if err := m.Catalog.Upsert(&catalog.Entry{
		FilePath:           meta.FilePath,
		FileHash:           hash,
		FileSize:           meta.FileSizeBytes,
		ModifiedTime:       meta.ModifiedTime,
		ChunkCount:         len(result.Chunks),
		Kind:               kind,
		Extension:          meta.FileExtension,
		EmbeddingDimension: dimension,
	}); err != nil {
		return nil, err
	}

	if result.Skipped || len(result.Chunks) == 0 {
		return &IndexFileResult{FilePath: meta.FilePath, Skipped: true, Reason: result.Reason}, nil
	}

	if err := m.Blobs.SaveEmbeddings(meta.FilePath, result.Embeddings); err != nil {
		return nil, err
	}
	if err := m.Blobs.SaveMetadata(meta.FilePath, &blobstore.FileMetadataBlob{
		FilePath:      meta.FilePath,
		FileName:      meta.FileName,
		FileExtension: meta.FileExtension,
		FileSizeBytes: meta.FileSizeBytes,
		ChunkCount:    len(result.Chunks),
		Chunks:        result.Chunks,
	}); err != nil {
		return nil, err
	}

	target := m.TextIndex
	if result.Kind == handler.KindImage {
		target = m.ImageIndex
	}
	if err := target.AddFileEmbeddings(meta.FilePath, result.Embeddings, result.Chunks); err != nil {
		// The catalog and blob store are already updated; the vector index
		// falling behind is logged by the caller rather than treated as fatal,
		// mirroring the original's try/except around search index updates.
		return &IndexFileResult{FilePath: meta.FilePath, Indexed: true, Reason: "vector index update failed: " + err.Error()}, nil
	}

	return &IndexFileResult{FilePath: meta.FilePath, Indexed: true}, nil
}

// DirectoryResult summarizes a directory-wide indexing pass.
type DirectoryResult struct {
	Indexed []string
	Skipped []string
	Errors  map[string]string
}

// IndexDirectory walks root (recursively if recursive is true), indexing
// every file not inside a .filex directory (narrowed to extensions when
// non-empty). Files of a type no handler recognizes still reach the
// router's default handler and are recorded as skipped rather than being
// excluded from the walk. A single file's error is recorded rather than
// aborting the walk.
func (m *Manager) IndexDirectory(ctx context.Context, root string, recursive bool, force bool, extensions []string) (*DirectoryResult, error) {
	paths, err := discoverFiles(root, recursive, extensions)
	if err != nil {
		return nil, err
	}

	result := &DirectoryResult{Errors: make(map[string]string)}
	for _, path := range paths {
		fileResult, err := m.IndexFile(ctx, path, force)
		if err != nil {
			result.Errors[path] = err.Error()
			continue
		}
		if fileResult.Indexed {
			result.Indexed = append(result.Indexed, path)
		} else {
			result.Skipped = append(result.Skipped, path)
		}
	}
	return result, nil
}

// ReindexAll force-reindexes every eligible file under the work tree root.
func (m *Manager) ReindexAll(ctx context.Context) (*DirectoryResult, error) {
	return m.IndexDirectory(ctx, m.Repo.WorkTreeRoot, true, true, nil)
}

// ListIndexedFiles returns catalog entries, optionally filtered by
// extension (e.g. ".txt").
func (m *Manager) ListIndexedFiles(extension string) ([]*catalog.Entry, error) {
	return m.Catalog.GetAllEntries(extension)
}

// IndexStatus summarizes the state of the repository's catalog.
type IndexStatus struct {
	IndexedFilesCount  int
	EligibleFilesCount int
	FileTypes          map[string]FileTypeStat
}

// FileTypeStat is the per-extension breakdown in IndexStatus.FileTypes.
type FileTypeStat struct {
	Count       int
	TotalSize   int64
	TotalChunks int
}

// GetIndexStatus reports both what has been indexed and, via a fresh
// work-tree walk, how many eligible files exist in total (indexed or not).
func (m *Manager) GetIndexStatus() (*IndexStatus, error) {
	entries, err := m.Catalog.GetAllEntries("")
	if err != nil {
		return nil, err
	}

	status := &IndexStatus{IndexedFilesCount: len(entries), FileTypes: make(map[string]FileTypeStat)}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.FilePath))
		stat := status.FileTypes[ext]
		stat.Count++
		stat.TotalSize += e.FileSize
		stat.TotalChunks += e.ChunkCount
		status.FileTypes[ext] = stat
	}

	eligible, err := countEligibleFiles(m.Repo.WorkTreeRoot)
	if err != nil {
		return nil, err
	}
	status.EligibleFilesCount = eligible

	return status, nil
}

// countEligibleFiles walks root and counts files filex would index (text or
// image type), skipping anything inside a .filex directory. This is a status
// metric only; the directory-indexing walk itself (discoverFiles) does not
// gate on eligibility, so ineligible files still reach the router's default
// handler and get recorded as skipped.
func countEligibleFiles(root string) (int, error) {
	count := 0
	walk := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == repo.DirName {
				return filepath.SkipDir
			}
			return nil
		}
		meta, err := finfo.FromPath(path)
		if err != nil || !meta.IsEligible() {
			return nil
		}
		count++
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return 0, ferrors.New(ferrors.ErrCodePersistence, "walk directory "+root, err)
	}
	return count, nil
}

// discoverFiles walks root collecting file paths to index, skipping anything
// inside a .filex directory. extensions, if non-empty, restricts the result
// to those extensions; eligibility (text/image type) is not checked here so
// ineligible files still reach the router's default handler.
func discoverFiles(root string, recursive bool, extensions []string) ([]string, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var paths []string
	walk := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == repo.DirName {
				return filepath.SkipDir
			}
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if len(allowed) > 0 && !allowed[ext] {
			return nil
		}

		meta, err := finfo.FromPath(path)
		if err != nil {
			return nil
		}
		paths = append(paths, meta.FilePath)
		return nil
	}

	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, ferrors.New(ferrors.ErrCodePersistence, "walk directory "+root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
