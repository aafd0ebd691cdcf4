package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Muxite/filex/internal/app"
)

type statsRequest struct {
	RepoPath string `json:"repo_path"`
}

func (s *Server) handleStats(c *gin.Context) {
	var req statsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.RepoPath == "" {
		badRequest(c, "repo_path is required")
		return
	}

	a, err := app.Open(req.RepoPath, false)
	if err != nil {
		writeError(c, err)
		return
	}
	defer a.Close()

	stats, err := a.Stats()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
