package handler

import (
	"net/http"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/task-service/internal/domain/errors"
	"github.com/gin-gonic/gin"
)

var invalidArgumentPrefix = customErrors.ErrInvalidArgument.Error() + ": "

// handleError is the single place where domain errors become HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.TrimPrefix(err.Error(), invalidArgumentPrefix)})
	case customErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case customErrors.IsInvalidToken(err), customErrors.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case customErrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case customErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
	default:
		// RequestLogger reports c.Errors
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
