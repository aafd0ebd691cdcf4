package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Muxite/filex/internal/ferrors"
)

// writeError maps err to a FilexError-aware HTTP status and writes a
// JSON error body, falling back to 500 for unrecognized error types.
func writeError(c *gin.Context, err error) {
	status := ferrors.HTTPStatus(err)
	body := gin.H{"error": err.Error()}
	if fe, ok := err.(*ferrors.FilexError); ok {
		body["code"] = fe.Code
		if fe.Suggestion != "" {
			body["suggestion"] = fe.Suggestion
		}
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
