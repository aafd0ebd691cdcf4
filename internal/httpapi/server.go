// Package httpapi exposes filex's indexing and search operations over
// HTTP. It is built on Gin with gin-contrib/cors.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Muxite/filex/internal/controller"
	"github.com/Muxite/filex/internal/registry"
	"github.com/Muxite/filex/pkg/version"
)

// defaultExtensions is the extension filter applied to /api/index requests
// that omit one.
var defaultExtensions = []string{".txt", ".docx", ".png", ".jpg", ".jpeg"}

// Server wires the HTTP surface to a background indexing controller and a
// registered-folders set. Each request opens the repository named by its
// repo_path field independently; filex does not keep a long-lived pool of
// open repositories.
type Server struct {
	controller *controller.Controller
	registry   *registry.Registry
}

// New creates a Server. registryPath is the JSON file backing the
// registered-folders set.
func New(registryPath string, maxConcurrentJobs int64) (*Server, error) {
	reg, err := registry.Open(registryPath)
	if err != nil {
		return nil, err
	}
	return &Server{
		controller: controller.New(maxConcurrentJobs),
		registry:   reg,
	}, nil
}

// Router builds the Gin engine with every indexing, search, and
// registered-folders endpoint attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/", s.handleInfo)
	r.GET("/api/repositories", s.handleRepositories)
	r.GET("/api/registered-folders", s.handleListFolders)
	r.POST("/api/registered-folders", s.handleRegisterFolder)
	r.DELETE("/api/registered-folders/*path", s.handleUnregisterFolder)
	r.POST("/api/index", s.handleIndex)
	r.POST("/api/search", s.handleSearch)
	r.POST("/api/stats", s.handleStats)
	r.GET("/api/progress/*repoID", s.handleGetProgress)
	r.DELETE("/api/progress/*repoID", s.handleDeleteProgress)

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "filex",
		"version": version.Version,
		"endpoints": []string{
			"GET /api/repositories",
			"GET /api/registered-folders",
			"POST /api/registered-folders",
			"DELETE /api/registered-folders/:path",
			"POST /api/index",
			"POST /api/search",
			"POST /api/stats",
			"GET /api/progress/:repo_id",
			"DELETE /api/progress/:repo_id",
		},
	})
}

func (s *Server) handleRepositories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"repositories": []string{}, "count": 0})
}
