package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Muxite/filex/internal/app"
	"github.com/Muxite/filex/internal/controller"
)

type indexRequest struct {
	RepoPath   string   `json:"repo_path"`
	Path       string   `json:"path"`
	Force      bool     `json:"force"`
	Recursive  bool     `json:"recursive"`
	Extensions []string `json:"extensions"`
}

func (s *Server) handleIndex(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.RepoPath == "" {
		badRequest(c, "repo_path is required")
		return
	}

	extensions := req.Extensions
	if extensions == nil {
		extensions = defaultExtensions
	}

	target := req.Path
	if target == "" {
		target = req.RepoPath
	}
	recursive := req.Recursive

	progress, err := s.controller.Start(c.Request.Context(), req.RepoPath, func(ctx context.Context, p *controller.Progress) error {
		a, err := app.Open(req.RepoPath, true)
		if err != nil {
			return err
		}
		defer a.Close()

		if target != req.RepoPath {
			result, err := a.Manager.IndexFile(ctx, target, req.Force)
			if err != nil {
				return err
			}
			p.SetFilesTotal(1)
			if result.Indexed {
				p.RecordFileIndexed()
			} else {
				p.RecordFileSkipped()
			}
			return a.Save()
		}

		result, err := a.Manager.IndexDirectory(ctx, req.RepoPath, recursive, req.Force, extensions)
		if err != nil {
			return err
		}
		p.SetFilesTotal(len(result.Indexed) + len(result.Skipped) + len(result.Errors))
		for range result.Indexed {
			p.RecordFileIndexed()
		}
		for range result.Skipped {
			p.RecordFileSkipped()
		}
		return a.Save()
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, progress.Snapshot())
}
