// Package controller runs repository indexing jobs in the background,
// enforcing at most one active job per repository and exposing progress
// for polling. A cross-process advisory lock on a per-repository lockfile
// (via gofrs/flock) keeps two separate filex processes from indexing the
// same repository concurrently; within one process a mutex-guarded task
// table does the same job more cheaply.
package controller

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"

	"github.com/Muxite/filex/internal/ferrors"
)

// IndexFunc performs the actual indexing work, reporting progress through p.
// It should return an error to mark the task failed.
type IndexFunc func(ctx context.Context, p *Progress) error

// Controller tracks at most one active indexing task per repository key
// (typically the repository's canonical .filex path) and runs tasks on a
// bounded worker pool.
type Controller struct {
	mu    sync.Mutex
	tasks map[string]*Progress
	locks map[string]*flock.Flock
	sem   *semaphore.Weighted
}

// New creates a Controller whose worker pool allows at most maxConcurrent
// indexing jobs to run at once.
func New(maxConcurrent int64) *Controller {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Controller{
		tasks: make(map[string]*Progress),
		locks: make(map[string]*flock.Flock),
		sem:   semaphore.NewWeighted(maxConcurrent),
	}
}

// Start launches fn in the background for repoDir, returning the new
// task's Progress. If a non-terminal task already exists for repoDir, it
// returns a Conflict FilexError instead of starting a second one.
func (c *Controller) Start(ctx context.Context, repoDir string, fn IndexFunc) (*Progress, error) {
	key := filepath.Clean(repoDir)

	c.mu.Lock()
	if existing, ok := c.tasks[key]; ok && !existing.IsTerminal() {
		c.mu.Unlock()
		return nil, ferrors.Conflict("an indexing job is already running for this repository", nil).
			WithDetail("repo", key)
	}

	progress := newProgress(key)
	c.tasks[key] = progress
	c.mu.Unlock()

	go c.run(ctx, key, progress, fn)

	return progress, nil
}

func (c *Controller) run(ctx context.Context, key string, progress *Progress, fn IndexFunc) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		progress.setError("could not acquire worker slot: " + err.Error())
		return
	}
	defer c.sem.Release(1)

	lock := c.lockFor(key)
	locked, err := lock.TryLock()
	if err != nil {
		progress.setError("acquire repository lock: " + err.Error())
		return
	}
	if !locked {
		progress.setError("another process is indexing this repository")
		return
	}
	defer lock.Unlock()

	progress.setStage(StageIndexing)

	if err := fn(ctx, progress); err != nil {
		progress.setError(err.Error())
		return
	}

	progress.setCompleted()
}

func (c *Controller) lockFor(key string) *flock.Flock {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l, ok := c.locks[key]; ok {
		return l
	}
	l := flock.New(filepath.Join(key, "indexing.lock"))
	c.locks[key] = l
	return l
}

// Get returns the Progress for repoDir, or nil if no task has ever run for it.
func (c *Controller) Get(repoDir string) *Progress {
	key := filepath.Clean(repoDir)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks[key]
}

// Delete removes a terminal task's record, returning an error if the task
// is still running. This matches the HTTP surface's DELETE
// /api/progress/{repo_id} semantics.
func (c *Controller) Delete(repoDir string) error {
	key := filepath.Clean(repoDir)

	c.mu.Lock()
	defer c.mu.Unlock()

	task, ok := c.tasks[key]
	if !ok {
		return ferrors.NotFound(ferrors.ErrCodeTaskNotFound, "no indexing task for "+key, nil)
	}
	if !task.IsTerminal() {
		return ferrors.InvalidArgument("cannot delete a task that is still running", nil)
	}

	delete(c.tasks, key)
	return nil
}
