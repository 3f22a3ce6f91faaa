package auth

import (
	"testing"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(&model.Identity{ID: "a", Role: model.RoleClient, IsAdmin: true}))
	assert.ErrorIs(t, RequireAdmin(&model.Identity{ID: "c", Role: model.RoleClient}), apperr.ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(nil), apperr.ErrForbidden)
}

func TestRequireRole(t *testing.T) {
	provider := &model.Identity{ID: "p", Role: model.RoleProvider}

	assert.NoError(t, RequireRole(provider, model.RoleProvider))
	assert.ErrorIs(t, RequireRole(provider, model.RoleClient), apperr.ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, model.RoleClient), apperr.ErrForbidden)
}

func TestRequireRole_AdminFlagDoesNotGrantRole(t *testing.T) {
	admin := &model.Identity{ID: "a", Role: model.RoleClient, IsAdmin: true}

	assert.ErrorIs(t, RequireRole(admin, model.RoleProvider), apperr.ErrForbidden)
}
