package middleware

import (
	"net/http"

	"github.com/helpapp/marketplace/internal/auth"
	"github.com/helpapp/marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for a specific user role
func RoleMiddleware(role model.Role) gin.HandlerFunc {
	return policyMiddleware(func(identity *model.Identity) error {
		return auth.RequireRole(identity, role)
	})
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return policyMiddleware(auth.RequireAdmin)
}

func policyMiddleware(check func(*model.Identity) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication"})
			return
		}
		if err := check(identity); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
