// Package repo locates and creates the .filex repository directory that
// roots a filex work tree, the way a VCS tool walks up parent directories
// to find its metadata directory.
package repo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Muxite/filex/internal/ferrors"
)

// DirName is the name of the hidden repository directory.
const DirName = ".filex"

const (
	indexDirName     = "index"
	embeddingsDirName = "embeddings"
	metadataDirName  = "metadata"
)

// Repository describes an on-disk .filex repository rooted at a work tree.
type Repository struct {
	// WorkTreeRoot is the directory containing .filex.
	WorkTreeRoot string
	// Dir is WorkTreeRoot/.filex.
	Dir string
}

// IndexDir returns the directory holding the SQLite catalog and vector
// index sidecars.
func (r *Repository) IndexDir() string { return filepath.Join(r.Dir, indexDirName) }

// EmbeddingsDir returns the directory holding per-file .npy blobs.
func (r *Repository) EmbeddingsDir() string { return filepath.Join(r.Dir, embeddingsDirName) }

// MetadataDir returns the directory holding per-file JSON metadata blobs.
func (r *Repository) MetadataDir() string { return filepath.Join(r.Dir, metadataDirName) }

// CatalogPath returns the path of the SQLite catalog database.
func (r *Repository) CatalogPath() string { return filepath.Join(r.IndexDir(), "index.db") }

// Find walks up from startDir looking for a .filex directory, the way git
// walks up looking for .git. Returns a NotFound FilexError if none is found
// before reaching the filesystem root.
func Find(startDir string) (*Repository, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidPath, "resolve absolute path", err)
	}

	for {
		candidate := filepath.Join(dir, DirName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return &Repository{WorkTreeRoot: dir, Dir: candidate}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ferrors.NotFound(ferrors.ErrCodeRepoNotFound,
				"no .filex repository found in any parent of "+startDir, nil)
		}
		dir = parent
	}
}

// Create initializes a new .filex repository rooted at workTreeRoot.
// Creating over an existing repository is not an error: it returns the
// existing Repository unchanged, matching the original tool's idempotent
// "already initialized" behavior.
func Create(workTreeRoot string) (*Repository, error) {
	root, err := filepath.Abs(workTreeRoot)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidPath, "resolve absolute path", err)
	}

	r := &Repository{WorkTreeRoot: root, Dir: filepath.Join(root, DirName)}

	if info, statErr := os.Stat(r.Dir); statErr == nil && info.IsDir() {
		return r, nil
	}

	for _, dir := range []string{r.Dir, r.IndexDir(), r.EmbeddingsDir(), r.MetadataDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, ferrors.New(ferrors.ErrCodePersistence, "create repository directory "+dir, err)
		}
	}
	return r, nil
}

// IsPathInRepo reports whether path lies within r's work tree. Errors
// resolving either path are treated as "not in repo" rather than propagated,
// matching the original's catch-and-return-false behavior.
func (r *Repository) IsPathInRepo(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(r.WorkTreeRoot, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
