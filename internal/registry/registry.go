// Package registry persists the set of absolute folder paths a filex
// server instance has been told about, independent of whether any of them
// has been indexed yet. It backs the HTTP surface's
// /api/registered-folders endpoints.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Muxite/filex/internal/ferrors"
)

// FileName is the name of the registry's JSON file.
const FileName = "registered_folders.json"

// document is the on-disk shape: {"folders": [abs_path, ...]}.
type document struct {
	Folders []string `json:"folders"`
}

// Registry is a JSON-backed set of registered absolute folder paths,
// safe for concurrent use.
type Registry struct {
	path string
	mu   sync.Mutex
}

// Open loads (or prepares to create) the registry file at path.
func Open(path string) (*Registry, error) {
	return &Registry{path: path}, nil
}

func (r *Registry) load() (document, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return document{}, nil
		}
		return document{}, ferrors.New(ferrors.ErrCodePersistence, "read registry file", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, ferrors.New(ferrors.ErrCodeDecodeFailed, "parse registry file", err)
	}
	return doc, nil
}

func (r *Registry) save(doc document) error {
	sort.Strings(doc.Folders)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "marshal registry file", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ferrors.New(ferrors.ErrCodePersistence, "create registry directory", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "write registry file", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return ferrors.New(ferrors.ErrCodePersistence, "rename registry file", err)
	}
	return nil
}

// List returns every registered folder path, sorted.
func (r *Registry) List() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	sort.Strings(doc.Folders)
	if doc.Folders == nil {
		doc.Folders = []string{}
	}
	return doc.Folders, nil
}

// Register adds path (after resolving to an absolute path) to the
// registry, failing NotFound if it doesn't exist and InvalidArgument if it
// isn't a directory. Registering an already-registered path is a no-op.
// Returns the updated, sorted list of folders.
func (r *Registry) Register(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidPath, "resolve absolute path", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, ferrors.NotFound(ferrors.ErrCodeFileNotFound, "folder does not exist: "+abs, err)
	}
	if !info.IsDir() {
		return nil, ferrors.InvalidArgument("path is not a directory: "+abs, nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, f := range doc.Folders {
		if f == abs {
			sort.Strings(doc.Folders)
			return doc.Folders, nil
		}
	}
	doc.Folders = append(doc.Folders, abs)

	if err := r.save(doc); err != nil {
		return nil, err
	}
	sort.Strings(doc.Folders)
	return doc.Folders, nil
}

// Unregister removes path from the registry. Removing a path that isn't
// registered is not an error.
func (r *Registry) Unregister(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ferrors.New(ferrors.ErrCodeInvalidPath, "resolve absolute path", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	kept := doc.Folders[:0]
	for _, f := range doc.Folders {
		if f != abs {
			kept = append(kept, f)
		}
	}
	doc.Folders = kept

	return r.save(doc)
}
