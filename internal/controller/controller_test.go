package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForTerminal(t *testing.T, p *Progress) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.IsTerminal() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("task did not reach a terminal state in time")
}

func TestStartRunsTaskToCompletion(t *testing.T) {
	c := New(2)
	dir := t.TempDir()

	p, err := c.Start(context.Background(), dir, func(ctx context.Context, p *Progress) error {
		p.SetFilesTotal(1)
		p.RecordFileIndexed()
		return nil
	})
	require.NoError(t, err)

	waitForTerminal(t, p)
	snap := p.Snapshot()
	assert.Equal(t, StageCompleted, snap.Stage)
	assert.Equal(t, 1, snap.FilesIndexed)
}

func TestStartRejectsConcurrentJobForSameRepo(t *testing.T) {
	c := New(2)
	dir := t.TempDir()

	release := make(chan struct{})
	_, err := c.Start(context.Background(), dir, func(ctx context.Context, p *Progress) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	_, err = c.Start(context.Background(), dir, func(ctx context.Context, p *Progress) error {
		return nil
	})
	assert.Error(t, err)

	close(release)
}

func TestStartRecordsErrorFromFn(t *testing.T) {
	c := New(1)
	dir := t.TempDir()

	p, err := c.Start(context.Background(), dir, func(ctx context.Context, p *Progress) error {
		return assertError{}
	})
	require.NoError(t, err)

	waitForTerminal(t, p)
	assert.Equal(t, StageError, p.Snapshot().Stage)
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestGetReturnsNilForUnknownRepo(t *testing.T) {
	c := New(1)
	assert.Nil(t, c.Get(t.TempDir()))
}

func TestDeleteRequiresTerminalState(t *testing.T) {
	c := New(1)
	dir := t.TempDir()

	release := make(chan struct{})
	p, err := c.Start(context.Background(), dir, func(ctx context.Context, p *Progress) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	err = c.Delete(dir)
	assert.Error(t, err)

	close(release)
	waitForTerminal(t, p)
	assert.NoError(t, c.Delete(dir))
}
