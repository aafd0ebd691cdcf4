// Package extract pulls plain text out of the text-type files filex
// indexes: .txt (UTF-8 with a latin-1 fallback) and .docx (paragraph text).
package extract

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nguyenthenguyen/docx"

	"github.com/Muxite/filex/internal/ferrors"
)

// docxCacheSize bounds the number of parsed .docx bodies kept in memory
// across a directory walk, avoiding re-parsing unchanged files.
const docxCacheSize = 64

// Extractor extracts text content from files on disk.
type Extractor struct {
	docxCache *lru.Cache[string, string]
}

// New creates an Extractor with its .docx parse cache.
func New() *Extractor {
	cache, _ := lru.New[string, string](docxCacheSize)
	return &Extractor{docxCache: cache}
}

// ExtractText returns the plain text content of path, dispatching on its
// extension. Unsupported extensions return an UnsupportedType error.
func (e *Extractor) ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return extractTxt(path)
	case ".docx":
		return e.extractDocx(path)
	default:
		return "", ferrors.New(ferrors.ErrCodeUnsupportedType, "unsupported text extension: "+ext, nil)
	}
}

// extractTxt reads path as UTF-8, falling back to latin-1 (ISO-8859-1) if
// the bytes are not valid UTF-8. No further fallback is attempted.
func extractTxt(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.New(ferrors.ErrCodeFileNotFound, "read text file: "+path, err)
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return latin1ToUTF8(raw), nil
}

func latin1ToUTF8(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

// extractDocx parses a .docx file's paragraph text, joined by newlines,
// caching the result by absolute path keyed alongside mtime so an
// unchanged file still held in the docxCacheSize-entry LRU is not
// re-parsed; a file evicted from the cache is parsed again.
func (e *Extractor) extractDocx(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ferrors.New(ferrors.ErrCodeInvalidPath, "resolve absolute path", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", ferrors.NotFound(ferrors.ErrCodeFileNotFound, "stat docx file: "+abs, err)
	}
	cacheKey := abs + "#" + info.ModTime().String()

	if e.docxCache != nil {
		if cached, ok := e.docxCache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	r, err := docx.ReadDocxFile(abs)
	if err != nil {
		return "", ferrors.New(ferrors.ErrCodeDocxParseFailed, "open docx file: "+abs, err)
	}
	defer r.Close()

	text := r.Editable().GetContent()
	text = stripDocxMarkup(text)

	if e.docxCache != nil {
		e.docxCache.Add(cacheKey, text)
	}
	return text, nil
}

// GetFileSize returns the size in bytes of path.
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, ferrors.NotFound(ferrors.ErrCodeFileNotFound, "stat file: "+path, err)
	}
	return info.Size(), nil
}
