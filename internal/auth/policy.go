package auth

import (
	"fmt"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
)

func RequireAdmin(identity *model.Identity) error {
	if identity == nil || !identity.IsAdmin {
		return apperr.Forbidden("admin access required")
	}
	return nil
}

func RequireRole(identity *model.Identity, role model.Role) error {
	if identity == nil || identity.Role != role {
		return apperr.Forbidden(fmt.Sprintf("%s role required", role))
	}
	return nil
}
