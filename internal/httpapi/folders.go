package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

type registerFolderRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleListFolders(c *gin.Context) {
	folders, err := s.registry.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders, "count": len(folders)})
}

func (s *Server) handleRegisterFolder(c *gin.Context) {
	var req registerFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	folders, err := s.registry.Register(req.Path)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders, "count": len(folders)})
}

func (s *Server) handleUnregisterFolder(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	if path == "" {
		badRequest(c, "path is required")
		return
	}

	if err := s.registry.Unregister(path); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
