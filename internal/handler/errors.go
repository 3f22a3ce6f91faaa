package handler

import (
	"errors"
	"net/http"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/middleware"
	"github.com/helpapp/marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps an error kind to its status code. Anything without a
// kind is logged and reported as a generic 500 so store details never leak.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var status int
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	default:
		logger.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// mustIdentity fetches the caller set by the auth middleware. It writes a 401
// and returns false when the route was mounted without that middleware.
func mustIdentity(c *gin.Context) (*model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication"})
		return nil, false
	}
	return identity, true
}
