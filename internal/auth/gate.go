// Package auth resolves bearer tokens into identities and holds the
// role/admin predicates callers compose before mutating operations.
package auth

import (
	"context"
	"fmt"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/utils"
)

type TokenVerifier interface {
	ValidateToken(token string) (*utils.IdentityClaims, error)
}

type IdentityLookup interface {
	FindIdentityByID(ctx context.Context, id string) (*model.Identity, error)
}

// Authenticator is the authentication gate. Missing header, malformed or
// expired token and unknown subject all surface as apperr.ErrUnauthenticated
// so callers cannot tell them apart.
type Authenticator struct {
	tokens TokenVerifier
	users  IdentityLookup
}

func NewAuthenticator(tokens TokenVerifier, users IdentityLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Authenticate(ctx context.Context, src CredentialSource) (*model.Identity, error) {
	token, ok := BearerToken(src.AuthorizationHeader())
	if !ok {
		return nil, apperr.ErrUnauthenticated
	}

	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperr.ErrUnauthenticated
	}

	identity, err := a.users.FindIdentityByID(ctx, claims.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	if identity == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return identity, nil
}
