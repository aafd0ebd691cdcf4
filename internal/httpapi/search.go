package httpapi

import (
	"encoding/base64"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Muxite/filex/internal/app"
	"github.com/Muxite/filex/internal/vectorindex"
)

type searchRequest struct {
	RepoPath        string  `json:"repo_path"`
	Query           string  `json:"query"`
	TopK            int     `json:"top_k"`
	IncludeImages   bool    `json:"include_images"`
	MaxImageSizeMB  float64 `json:"max_image_size_mb"`
}

type searchResultDTO struct {
	vectorindex.Result
	ImageDataURL string `json:"image_data_url,omitempty"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.RepoPath == "" {
		badRequest(c, "repo_path is required")
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = 10
	}

	a, err := app.Open(req.RepoPath, false)
	if err != nil {
		writeError(c, err)
		return
	}
	defer a.Close()

	results, err := a.Search(c.Request.Context(), req.Query, topK, req.IncludeImages)
	if err != nil {
		writeError(c, err)
		return
	}

	maxBytes := int64(req.MaxImageSizeMB * 1024 * 1024)
	dtos := make([]searchResultDTO, 0, len(results))
	for _, r := range results {
		dto := searchResultDTO{Result: r}
		if req.IncludeImages && r.Kind == vectorindex.KindImage && maxBytes > 0 {
			if dataURL, ok := inlineImage(r.FilePath, maxBytes); ok {
				dto.ImageDataURL = dataURL
			}
		}
		dtos = append(dtos, dto)
	}

	c.JSON(http.StatusOK, gin.H{"results": dtos, "count": len(dtos)})
}

// inlineImage reads path and returns it as a base64 data URL when its size
// does not exceed maxBytes, for opt-in image inlining in search results.
func inlineImage(path string, maxBytes int64) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxBytes {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), true
}
