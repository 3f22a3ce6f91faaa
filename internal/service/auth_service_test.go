package service

import (
	"context"
	"testing"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/repository/memory"
	"github.com/helpapp/marketplace/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T, adminEmail string) (AuthService, *utils.JWTUtil) {
	t.Helper()
	jwtUtil := utils.NewJWTUtil("test-secret", 0)
	return NewAuthService(memory.NewStore().Users(), jwtUtil, adminEmail, zap.NewNop()), jwtUtil
}

func signup(email string, role model.Role) model.SignupRequest {
	return model.SignupRequest{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      role,
	}
}

func TestRegister_IssuesTokenForNewUser(t *testing.T) {
	svc, jwtUtil := newAuthService(t, "")

	user, token, err := svc.Register(context.Background(), signup("  Ada@Example.com ", model.RoleClient))
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, model.RoleClient, user.Role)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	claims, err := jwtUtil.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.SubjectID)
	assert.Equal(t, model.RoleClient, claims.Role)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthService(t, "")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, signup("ada@example.com", model.RoleClient))
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, signup("ADA@example.com", model.RoleProvider))
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc, _ := newAuthService(t, "")

	_, _, err := svc.Register(context.Background(), signup("ada@example.com", model.Role("ADMIN")))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegister_InitialAdminEmail(t *testing.T) {
	svc, _ := newAuthService(t, "Boss@Example.com")
	ctx := context.Background()

	boss, _, err := svc.Register(ctx, signup("boss@example.com", model.RoleClient))
	require.NoError(t, err)
	assert.True(t, boss.IsAdmin)

	other, _, err := svc.Register(ctx, signup("staff@example.com", model.RoleClient))
	require.NoError(t, err)
	assert.False(t, other.IsAdmin)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t, "")
	ctx := context.Background()
	_, _, err := svc.Register(ctx, signup("ada@example.com", model.RoleProvider))
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.RoleProvider, user.Role)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	svc, _ := newAuthService(t, "")
	ctx := context.Background()
	user, _, err := svc.Register(ctx, signup("ada@example.com", model.RoleClient))
	require.NoError(t, err)

	me, err := svc.Me(ctx, user.Identity())
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.FirstName)

	_, err = svc.Me(ctx, &model.Identity{ID: "deleted"})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
