// Package catalog is the SQLite-backed record of every file filex has
// indexed: its path, size, modification time, and content hash, used to
// detect whether a file has changed since it was last indexed.
package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"io"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Muxite/filex/internal/ferrors"
)

// Entry is one row of the file_index table.
type Entry struct {
	FilePath           string
	FileHash           string
	FileSize           int64
	ModifiedTime       time.Time
	ChunkCount         int
	Kind               string // "text" or "image"
	Extension          string
	EmbeddingDimension *int // nil when the file was skipped and never embedded
	IndexedAt          time.Time
}

// Catalog wraps the SQLite database storing index entries.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog database at path and
// ensures its schema exists.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodePersistence, "open catalog database", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: single-writer discipline

	c := &Catalog{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS file_index (
	file_path TEXT PRIMARY KEY,
	file_hash TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	modified_time INTEGER NOT NULL,
	chunk_count INTEGER NOT NULL DEFAULT 0,
	kind TEXT NOT NULL DEFAULT '',
	extension TEXT NOT NULL DEFAULT '',
	embedding_dimension INTEGER,
	indexed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_file_hash ON file_index(file_hash);
CREATE INDEX IF NOT EXISTS idx_extension ON file_index(extension);
`
	if _, err := c.db.Exec(schema); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "create catalog schema", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// ComputeFileHash streams path's content through SHA-256 in 8KiB chunks.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ferrors.NotFound(ferrors.ErrCodeFileNotFound, "open file for hashing: "+path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, 8192)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", ferrors.New(ferrors.ErrCodePersistence, "hash file: "+path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GetEntry returns the catalog row for path, or nil if there is none.
func (c *Catalog) GetEntry(path string) (*Entry, error) {
	row := c.db.QueryRow(`SELECT file_path, file_hash, file_size, modified_time, chunk_count, kind, extension, embedding_dimension, indexed_at
		FROM file_index WHERE file_path = ?`, path)

	var e Entry
	var modified, indexed int64
	err := row.Scan(&e.FilePath, &e.FileHash, &e.FileSize, &modified, &e.ChunkCount, &e.Kind, &e.Extension, &e.EmbeddingDimension, &indexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodePersistence, "query catalog entry for "+path, err)
	}
	e.ModifiedTime = time.Unix(modified, 0)
	e.IndexedAt = time.Unix(indexed, 0)
	return &e, nil
}

// IsIndexed reports whether path has any catalog entry.
func (c *Catalog) IsIndexed(path string) (bool, error) {
	e, err := c.GetEntry(path)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

// HasChanged decides whether path needs reprocessing, checking in order of
// increasing cost: missing entry, size mismatch, mtime strictly older than
// last index, and finally (only if needed) a full content hash comparison.
// Hashing is deferred to last so stable files never pay the cost of a full
// read.
func (c *Catalog) HasChanged(path string, size int64, modTime time.Time) (bool, error) {
	entry, err := c.GetEntry(path)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return true, nil
	}
	if entry.FileSize != size {
		return true, nil
	}
	if modTime.Before(entry.ModifiedTime) {
		return true, nil
	}

	hash, err := ComputeFileHash(path)
	if err != nil {
		return false, err
	}
	return hash != entry.FileHash, nil
}

// Upsert inserts or replaces the catalog entry for e.FilePath.
func (c *Catalog) Upsert(e *Entry) error {
	indexedAt := e.IndexedAt
	if indexedAt.IsZero() {
		indexedAt = time.Now()
	}

	_, err := c.db.Exec(`INSERT OR REPLACE INTO file_index
		(file_path, file_hash, file_size, modified_time, chunk_count, kind, extension, embedding_dimension, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.FilePath, e.FileHash, e.FileSize, e.ModifiedTime.Unix(), e.ChunkCount, e.Kind, e.Extension, e.EmbeddingDimension, indexedAt.Unix())
	if err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "upsert catalog entry for "+e.FilePath, err)
	}
	return nil
}

// RemoveEntry deletes the catalog entry for path, if any.
func (c *Catalog) RemoveEntry(path string) error {
	if _, err := c.db.Exec(`DELETE FROM file_index WHERE file_path = ?`, path); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "remove catalog entry for "+path, err)
	}
	return nil
}

// GetAllEntries returns every catalog entry, optionally filtered to those
// whose recorded extension equals extension (a leading "." is required,
// e.g. ".txt").
func (c *Catalog) GetAllEntries(extension string) ([]*Entry, error) {
	query := `SELECT file_path, file_hash, file_size, modified_time, chunk_count, kind, extension, embedding_dimension, indexed_at FROM file_index`
	args := []any{}
	if extension != "" {
		query += ` WHERE extension = ?`
		args = append(args, extension)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodePersistence, "list catalog entries", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var modified, indexed int64
		if err := rows.Scan(&e.FilePath, &e.FileHash, &e.FileSize, &modified, &e.ChunkCount, &e.Kind, &e.Extension, &e.EmbeddingDimension, &indexed); err != nil {
			return nil, ferrors.New(ferrors.ErrCodePersistence, "scan catalog entry", err)
		}
		e.ModifiedTime = time.Unix(modified, 0)
		e.IndexedAt = time.Unix(indexed, 0)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// IndexedFilesCount returns the number of catalog rows.
func (c *Catalog) IndexedFilesCount() (int, error) {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM file_index`).Scan(&count); err != nil {
		return 0, ferrors.New(ferrors.ErrCodePersistence, "count catalog entries", err)
	}
	return count, nil
}
