package middleware

import (
	"errors"
	"net/http"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/auth"
	"github.com/helpapp/marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const AuthIdentityKey = "authIdentity"

// JWTAuthMiddleware runs the authentication gate and stores the resolved
// identity in the gin context.
func JWTAuthMiddleware(authn *auth.Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := authn.Authenticate(c.Request.Context(), auth.FromRequest(c.Request))
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication"})
				return
			}
			logger.Error("identity lookup failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(AuthIdentityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the identity set by JWTAuthMiddleware.
func IdentityFromContext(c *gin.Context) (*model.Identity, bool) {
	v, exists := c.Get(AuthIdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*model.Identity)
	return identity, ok && identity != nil
}
