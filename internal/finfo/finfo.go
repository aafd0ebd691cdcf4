// Package finfo describes the stat-derived metadata attached to every file
// filex tracks: path, size, timestamps, and whether the file is text or
// image content.
package finfo

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Muxite/filex/internal/ferrors"
)

// textExtensions are the extensions routed through the text handler.
var textExtensions = map[string]bool{
	".txt":  true,
	".docx": true,
}

// imageExtensions are the extensions routed through the image handler.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// FileMetadata is the stat-derived description of a single file.
type FileMetadata struct {
	FilePath     string
	FileName     string
	FileExtension string
	FileSizeBytes int64
	IsTextType   bool
	IsImageType  bool
	ModifiedTime time.Time
	CreatedTime  time.Time
}

// FromPath stats path and builds its FileMetadata.
func FromPath(path string) (*FileMetadata, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.New(ferrors.ErrCodeInvalidPath, "resolve absolute path", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.NotFound(ferrors.ErrCodeFileNotFound, "file does not exist: "+abs, err)
		}
		return nil, ferrors.New(ferrors.ErrCodeFileNotFound, "stat file: "+abs, err)
	}

	ext := strings.ToLower(filepath.Ext(abs))

	return &FileMetadata{
		FilePath:      abs,
		FileName:      filepath.Base(abs),
		FileExtension: ext,
		FileSizeBytes: info.Size(),
		IsTextType:    textExtensions[ext],
		IsImageType:   imageExtensions[ext],
		ModifiedTime:  info.ModTime(),
		CreatedTime:   createdTime(info),
	}, nil
}

// FileSizeKB returns the file size in kibibytes.
func (m *FileMetadata) FileSizeKB() float64 {
	return float64(m.FileSizeBytes) / 1024.0
}

// FileSizeMB returns the file size in mebibytes.
func (m *FileMetadata) FileSizeMB() float64 {
	return float64(m.FileSizeBytes) / (1024.0 * 1024.0)
}

// IsEligible reports whether this file is a type filex indexes at all
// (text or image). Files of neither kind are skipped by the directory walk.
func (m *FileMetadata) IsEligible() bool {
	return m.IsTextType || m.IsImageType
}
