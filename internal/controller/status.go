package controller

import "sync"

// Stage is the lifecycle state of a background indexing task.
type Stage string

const (
	StageStarting  Stage = "starting"
	StageIndexing  Stage = "indexing"
	StageCompleted Stage = "completed"
	StageError     Stage = "error"
)

// Progress is a thread-safe record of one indexing task's state. Callers
// read it via Snapshot rather than touching fields directly.
type Progress struct {
	mu sync.RWMutex

	RepoKey       string
	Stage         Stage
	FilesIndexed  int
	FilesSkipped  int
	FilesTotal    int
	ChunksTotal   int
	ChunksIndexed int
	ErrorMessage  string
}

// Snapshot is the immutable, JSON-serializable view of a Progress returned
// to API/CLI callers.
type Snapshot struct {
	RepoKey       string `json:"repo_key"`
	Stage         Stage  `json:"stage"`
	FilesIndexed  int    `json:"files_indexed"`
	FilesSkipped  int    `json:"files_skipped"`
	FilesTotal    int    `json:"files_total"`
	ChunksTotal   int    `json:"chunks_total"`
	ChunksIndexed int    `json:"chunks_indexed"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

func newProgress(repoKey string) *Progress {
	return &Progress{RepoKey: repoKey, Stage: StageStarting}
}

func (p *Progress) setStage(stage Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Stage = stage
}

// SetFilesTotal records the total number of files a task expects to process.
func (p *Progress) SetFilesTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.FilesTotal = total
}

// SetChunksTotal records the expected chunk count once known.
func (p *Progress) SetChunksTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ChunksTotal = total
}

// RecordFileIndexed increments the indexed-file counter by one.
func (p *Progress) RecordFileIndexed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.FilesIndexed++
}

// RecordFileSkipped increments the skipped-file counter by one.
func (p *Progress) RecordFileSkipped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.FilesSkipped++
}

// RecordChunksIndexed adds n to the indexed-chunk counter.
func (p *Progress) RecordChunksIndexed(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ChunksIndexed += n
}

func (p *Progress) setError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Stage = StageError
	p.ErrorMessage = msg
}

func (p *Progress) setCompleted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Stage = StageCompleted
}

// IsTerminal reports whether the task has finished (successfully or not).
func (p *Progress) IsTerminal() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Stage == StageCompleted || p.Stage == StageError
}

// Snapshot returns a point-in-time copy of the progress state.
func (p *Progress) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		RepoKey:       p.RepoKey,
		Stage:         p.Stage,
		FilesIndexed:  p.FilesIndexed,
		FilesSkipped:  p.FilesSkipped,
		FilesTotal:    p.FilesTotal,
		ChunksTotal:   p.ChunksTotal,
		ChunksIndexed: p.ChunksIndexed,
		ErrorMessage:  p.ErrorMessage,
	}
}
