package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "registered_folders.json"), 2)
	require.NoError(t, err)
	return s
}

func TestHandleInfo(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "filex")
}

func TestHandleRepositoriesStub(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/repositories", nil)
	s.Router().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 0, body["count"])
}

func TestRegisterAndListFolders(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()
	dir := t.TempDir()

	payload, _ := json.Marshal(registerFolderRequest{Path: dir})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/registered-folders", bytes.NewReader(payload))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/registered-folders", nil)
	router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), dir)
}

func TestRegisterFolderMissingPathReturns404(t *testing.T) {
	s := newTestServer(t)
	payload, _ := json.Marshal(registerFolderRequest{Path: "/does/not/exist/at/all"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/registered-folders", bytes.NewReader(payload))
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndexAndSearchRoundTrip(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("the quick brown fox jumps over the lazy dog"), 0o644))

	payload, _ := json.Marshal(indexRequest{RepoPath: dir, Recursive: true})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/index", bytes.NewReader(payload))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var snap struct {
		RepoKey string `json:"repo_key"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))

	deadline := waitForTerminal(t, router, snap.RepoKey)
	require.True(t, deadline)

	searchPayload, _ := json.Marshal(searchRequest{RepoPath: dir, Query: "quick brown fox", TopK: 5})
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewReader(searchPayload))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notes.txt")
}

// waitForTerminal polls the progress endpoint until the task leaves its
// starting/indexing stages. Background indexing of a single small file
// completes essentially immediately, so a handful of iterations suffice.
func waitForTerminal(t *testing.T, router http.Handler, repoKey string) bool {
	t.Helper()
	for i := 0; i < 200; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/progress/%s", repoKey), nil)
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			var snap struct {
				Stage string `json:"stage"`
			}
			if json.Unmarshal(rec.Body.Bytes(), &snap) == nil {
				if snap.Stage == "completed" || snap.Stage == "error" {
					return true
				}
			}
		}
	}
	return false
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))

	payload, _ := json.Marshal(indexRequest{RepoPath: dir, Recursive: true})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/index", bytes.NewReader(payload))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var snap struct {
		RepoKey string `json:"repo_key"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.True(t, waitForTerminal(t, router, snap.RepoKey))

	statsPayload, _ := json.Marshal(statsRequest{RepoPath: dir})
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/stats", bytes.NewReader(statsPayload))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "indexed_files_count")
}
