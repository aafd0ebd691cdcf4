package app

import "github.com/Muxite/filex/internal/vectorindex"

// Stats aggregates catalog, vector index, and blob storage statistics for
// the status command and the /api/stats endpoint.
type Stats struct {
	IndexedFilesCount  int                     `json:"indexed_files_count"`
	EligibleFilesCount int                     `json:"eligible_files_count"`
	FileTypes          map[string]FileTypeStat `json:"file_types"`
	TextIndex          vectorindex.Stats       `json:"text_index"`
	ImageIndex         vectorindex.Stats       `json:"image_index"`
	StorageSizeBytes   int64                   `json:"storage_size_bytes"`
}

// FileTypeStat is the per-extension breakdown in Stats.FileTypes.
type FileTypeStat struct {
	Count       int   `json:"count"`
	TotalSize   int64 `json:"total_size"`
	TotalChunks int   `json:"total_chunks"`
}

// Stats collects a full snapshot of the repository's index state.
func (a *Repo) Stats() (*Stats, error) {
	status, err := a.Manager.GetIndexStatus()
	if err != nil {
		return nil, err
	}

	storageSize, err := a.Manager.Blobs.StorageSize()
	if err != nil {
		return nil, err
	}

	fileTypes := make(map[string]FileTypeStat, len(status.FileTypes))
	for ext, stat := range status.FileTypes {
		fileTypes[ext] = FileTypeStat{Count: stat.Count, TotalSize: stat.TotalSize, TotalChunks: stat.TotalChunks}
	}

	return &Stats{
		IndexedFilesCount:  status.IndexedFilesCount,
		EligibleFilesCount: status.EligibleFilesCount,
		FileTypes:          fileTypes,
		TextIndex:          a.Manager.TextIndex.GetStats(),
		ImageIndex:         a.Manager.ImageIndex.GetStats(),
		StorageSizeBytes:   storageSize,
	}, nil
}
