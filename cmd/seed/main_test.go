package main

import (
	"context"
	"testing"

	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/repository/memory"
	"github.com/helpapp/marketplace/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeed_IsIdempotent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, seed(ctx, store.Set(), zap.NewNop()))
	require.NoError(t, seed(ctx, store.Set(), zap.NewNop()))

	services, err := store.Services().List(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, model.Cents(5000), services[0].BasePrice)

	admin, err := store.Users().FindByEmail(ctx, "adminuser@help-app.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, model.RoleClient, admin.Role)
	assert.True(t, utils.CheckPasswordHash("admin123", admin.PasswordHash))

	provider, err := store.Users().FindByEmail(ctx, "provider@example.com")
	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.Equal(t, model.RoleProvider, provider.Role)
}
