// Package vectorindex implements the in-memory linear-scan cosine
// nearest-neighbor index filex searches over. Two independent indices are
// kept (text, image); approximate nearest-neighbor search is intentionally
// out of scope for a local, single-directory-sized index.
package vectorindex

import (
	"math"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Muxite/filex/internal/ferrors"
	"github.com/Muxite/filex/internal/npy"
)

// Kind identifies which modality an index covers.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

const epsilon = 1e-8

// ChunkMetadata describes one embedded row: which file and which chunk
// within it.
type ChunkMetadata struct {
	FilePath   string `json:"file_path"`
	ChunkIndex int    `json:"chunk_index"`
	ChunkText  string `json:"chunk_text"`
}

// Result is one hit from a Search call.
type Result struct {
	FilePath   string  `json:"file_path"`
	ChunkIndex int     `json:"chunk_index"`
	ChunkText  string  `json:"chunk_text"`
	Score      float32 `json:"score"`
	Kind       Kind    `json:"kind"`
}

// Index is a dense float32 matrix of embeddings plus parallel per-row
// metadata, guarded by a reader-writer lock so concurrent search and
// indexing don't race.
type Index struct {
	kind Kind
	mu   sync.RWMutex
	dim  int
	rows [][]float32
	meta []ChunkMetadata
}

// New creates an empty Index of the given kind.
func New(kind Kind) *Index {
	return &Index{kind: kind}
}

// Dimensions returns the embedding width set by the first rows added (or by
// Load), or 0 if none has been set; removing rows does not reset it.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dim
}

// Size returns the number of embedded rows.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.rows)
}

// AddFileEmbeddings adds rows/meta for a file, first removing any existing
// rows for that file. This makes re-indexing a changed file idempotent
// rather than accumulating stale duplicate rows.
func (idx *Index) AddFileEmbeddings(filePath string, rows [][]float32, chunkTexts []string) error {
	if len(rows) != len(chunkTexts) {
		return ferrors.InvalidArgument("embedding row count must match chunk text count", nil)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeFileLocked(filePath)

	for _, row := range rows {
		if idx.dim == 0 {
			idx.dim = len(row)
		} else if len(row) != idx.dim {
			return ferrors.New(ferrors.ErrCodeDimensionMismatch, "embedding dimension mismatch", nil)
		}
	}

	for i, row := range rows {
		idx.rows = append(idx.rows, row)
		idx.meta = append(idx.meta, ChunkMetadata{FilePath: filePath, ChunkIndex: i, ChunkText: chunkTexts[i]})
	}
	return nil
}

// RemoveFileEmbeddings deletes every row belonging to filePath.
func (idx *Index) RemoveFileEmbeddings(filePath string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeFileLocked(filePath)
}

func (idx *Index) removeFileLocked(filePath string) {
	if len(idx.rows) == 0 {
		return
	}

	keptRows := idx.rows[:0]
	keptMeta := idx.meta[:0]
	for i, m := range idx.meta {
		if m.FilePath != filePath {
			keptRows = append(keptRows, idx.rows[i])
			keptMeta = append(keptMeta, m)
		}
	}
	idx.rows = keptRows
	idx.meta = keptMeta
}

// Search returns the topK nearest rows to query by cosine similarity.
// An empty index or a zero-norm query both return no results, not an error.
func (idx *Index) Search(query []float32, topK int) ([]Result, error) {
	if topK <= 0 {
		return nil, ferrors.InvalidArgument("topK must be positive", nil)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.rows) == 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, ferrors.New(ferrors.ErrCodeDimensionMismatch, "query dimension does not match index", nil)
	}

	normQuery := normalize(query)
	if normQuery == nil {
		return nil, nil
	}

	type scored struct {
		score float32
		i     int
	}
	scores := make([]scored, len(idx.rows))
	for i, row := range idx.rows {
		scores[i] = scored{score: cosine(normQuery, row), i: i}
	}

	sort.Slice(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if topK > len(scores) {
		topK = len(scores)
	}

	results := make([]Result, topK)
	for i := 0; i < topK; i++ {
		m := idx.meta[scores[i].i]
		results[i] = Result{
			FilePath:   m.FilePath,
			ChunkIndex: m.ChunkIndex,
			ChunkText:  m.ChunkText,
			Score:      scores[i].score,
			Kind:       idx.kind,
		}
	}
	return results, nil
}

// normalize L2-normalizes v, returning nil for a zero vector.
func normalize(v []float32) []float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSquares)
	if norm < epsilon {
		return nil
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// cosine computes the dot product of a pre-normalized query against a raw
// (not pre-normalized) row, epsilon-normalizing the row inline.
func cosine(normQuery, row []float32) float32 {
	var rowSumSquares float64
	for _, x := range row {
		rowSumSquares += float64(x) * float64(x)
	}
	rowNorm := math.Sqrt(rowSumSquares)
	if rowNorm < epsilon {
		return 0
	}

	var dot float64
	for i, x := range row {
		dot += float64(normQuery[i]) * (float64(x) / rowNorm)
	}
	return float32(dot)
}

// Stats summarizes an index for status/introspection endpoints.
type Stats struct {
	Kind       Kind `json:"kind"`
	VectorCount int `json:"vector_count"`
	Dimensions int  `json:"dimensions"`
}

// GetStats returns a Stats snapshot.
func (idx *Index) GetStats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{Kind: idx.kind, VectorCount: len(idx.rows), Dimensions: idx.dim}
}

// persistedMeta is the JSON sidecar shape saved next to the .npy matrix.
type persistedMeta struct {
	Dim  int             `json:"dim"`
	Meta []ChunkMetadata `json:"meta"`
}

// Save persists the index as an npyPath matrix plus a metaPath JSON sidecar.
func (idx *Index) Save(npyPath, metaPath string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	m := &npy.Matrix{Cols: idx.dim}
	for _, row := range idx.rows {
		m.AppendRow(row)
	}

	if err := npy.Write(npyPath, m); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "save vector index matrix", err)
	}

	pm := persistedMeta{Dim: idx.dim, Meta: idx.meta}
	raw, err := marshalIndentNoEscape(pm)
	if err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "marshal vector index metadata", err)
	}
	if err := writeFileAtomic(metaPath, raw); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "save vector index metadata", err)
	}
	return nil
}

// Load reads an index previously written by Save. A missing sidecar pair
// is not an error: Load returns a fresh empty index, matching the
// original's best-effort "reset on absence/corruption" behavior.
func Load(kind Kind, npyPath, metaPath string) (*Index, error) {
	idx := New(kind)

	m, err := npy.Read(npyPath)
	if err != nil {
		return idx, nil
	}

	raw, err := readFile(metaPath)
	if err != nil {
		return idx, nil
	}

	var pm persistedMeta
	if err := unmarshalJSON(raw, &pm); err != nil {
		return New(kind), nil
	}

	idx.dim = m.Cols
	for i := 0; i < m.Rows; i++ {
		row := make([]float32, m.Cols)
		copy(row, m.Row(i))
		idx.rows = append(idx.rows, row)
	}
	idx.meta = pm.Meta

	if len(idx.meta) != len(idx.rows) {
		// Corrupted/mismatched sidecar: reset rather than serve bad data.
		return New(kind), nil
	}
	return idx, nil
}

// NpyPath returns the conventional <indexDir> path to kind's matrix file:
// "search_index.npy" for text, "image_search_index.npy" for image.
func NpyPath(indexDir string, kind Kind) string {
	if kind == KindImage {
		return filepath.Join(indexDir, "image_search_index.npy")
	}
	return filepath.Join(indexDir, "search_index.npy")
}

// MetaPath returns the conventional <indexDir> path to kind's JSON sidecar:
// "search_metadata.json" for text, "image_search_metadata.json" for image.
func MetaPath(indexDir string, kind Kind) string {
	if kind == KindImage {
		return filepath.Join(indexDir, "image_search_metadata.json")
	}
	return filepath.Join(indexDir, "search_metadata.json")
}
