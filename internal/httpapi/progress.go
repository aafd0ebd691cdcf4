package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Muxite/filex/internal/ferrors"
)

func repoIDFromParam(c *gin.Context) string {
	id := strings.TrimPrefix(c.Param("repoID"), "/")
	if decoded, err := url.PathUnescape(id); err == nil {
		id = decoded
	}
	return id
}

func (s *Server) handleGetProgress(c *gin.Context) {
	repoID := repoIDFromParam(c)
	progress := s.controller.Get(repoID)
	if progress == nil {
		writeError(c, ferrors.NotFound(ferrors.ErrCodeTaskNotFound, "no indexing task for "+repoID, nil))
		return
	}
	c.JSON(http.StatusOK, progress.Snapshot())
}

func (s *Server) handleDeleteProgress(c *gin.Context) {
	repoID := repoIDFromParam(c)
	if err := s.controller.Delete(repoID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
