// Package blobstore persists per-file embeddings and metadata as
// content-addressed blobs: a .npy file of stacked chunk embeddings plus a
// JSON sidecar of metadata, both keyed by the SHA-256 hash of the file's
// canonical path.
package blobstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Muxite/filex/internal/ferrors"
	"github.com/Muxite/filex/internal/npy"
)

// Store reads and writes the embeddings/ and metadata/ directories of a
// .filex repository.
type Store struct {
	EmbeddingsDir string
	MetadataDir   string
}

// New creates a Store rooted at the given directories.
func New(embeddingsDir, metadataDir string) *Store {
	return &Store{EmbeddingsDir: embeddingsDir, MetadataDir: metadataDir}
}

// KeyForPath returns the SHA-256 hex digest of path, used as the blob's
// filename stem.
func KeyForPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}

func (s *Store) embeddingsPath(key string) string {
	return filepath.Join(s.EmbeddingsDir, key+".npy")
}

func (s *Store) metadataPath(key string) string {
	return filepath.Join(s.MetadataDir, key+".json")
}

// SaveEmbeddings writes rows as a stacked .npy matrix for the file at path.
func (s *Store) SaveEmbeddings(path string, rows [][]float32) error {
	key := KeyForPath(path)

	m := &npy.Matrix{}
	for _, row := range rows {
		m.AppendRow(row)
	}
	if len(rows) == 0 {
		m.Cols = 0
	}

	if err := npy.Write(s.embeddingsPath(key), m); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "save embeddings for "+path, err)
	}
	return nil
}

// LoadEmbeddings reads back the stacked embeddings for the file at path.
func (s *Store) LoadEmbeddings(path string) ([][]float32, error) {
	key := KeyForPath(path)

	m, err := npy.Read(s.embeddingsPath(key))
	if err != nil {
		return nil, ferrors.NotFound(ferrors.ErrCodeFileNotFound, "load embeddings for "+path, err)
	}

	rows := make([][]float32, m.Rows)
	for i := 0; i < m.Rows; i++ {
		row := make([]float32, m.Cols)
		copy(row, m.Row(i))
		rows[i] = row
	}
	return rows, nil
}

// FileMetadataBlob is the JSON shape persisted alongside a file's embeddings.
type FileMetadataBlob struct {
	FilePath      string   `json:"file_path"`
	FileName      string   `json:"file_name"`
	FileExtension string   `json:"file_extension"`
	FileSizeBytes int64    `json:"file_size_bytes"`
	ChunkCount    int      `json:"chunk_count"`
	Chunks        []string `json:"chunks,omitempty"`
}

// SaveMetadata writes blob as indented, non-ASCII-escaped JSON, matching
// the original tool's on-disk format.
func (s *Store) SaveMetadata(path string, blob *FileMetadataBlob) error {
	key := KeyForPath(path)

	raw, err := marshalIndentNoEscape(blob)
	if err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "marshal metadata for "+path, err)
	}

	if err := writeFileAtomic(s.metadataPath(key), raw); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "save metadata for "+path, err)
	}
	return nil
}

// LoadMetadata reads back a file's metadata blob.
func (s *Store) LoadMetadata(path string) (*FileMetadataBlob, error) {
	key := KeyForPath(path)

	raw, err := os.ReadFile(s.metadataPath(key))
	if err != nil {
		return nil, ferrors.NotFound(ferrors.ErrCodeFileNotFound, "load metadata for "+path, err)
	}

	var blob FileMetadataBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, ferrors.New(ferrors.ErrCodeDecodeFailed, "decode metadata for "+path, err)
	}
	return &blob, nil
}

// Delete removes both blobs for the file at path. Missing files are not an error.
func (s *Store) Delete(path string) error {
	key := KeyForPath(path)

	if err := os.Remove(s.embeddingsPath(key)); err != nil && !os.IsNotExist(err) {
		return ferrors.New(ferrors.ErrCodePersistence, "delete embeddings for "+path, err)
	}
	if err := os.Remove(s.metadataPath(key)); err != nil && !os.IsNotExist(err) {
		return ferrors.New(ferrors.ErrCodePersistence, "delete metadata for "+path, err)
	}
	return nil
}

// StorageSize sums the byte size of every .npy and .json blob (not the
// SQLite catalog file, which lives elsewhere).
func (s *Store) StorageSize() (int64, error) {
	var total int64
	for _, dir := range []string{s.EmbeddingsDir, s.MetadataDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, ferrors.New(ferrors.ErrCodePersistence, "list blob directory "+dir, err)
		}
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			total += info.Size()
		}
	}
	return total, nil
}
