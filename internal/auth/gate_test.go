package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/helpapp/marketplace/internal/apperr"
	"github.com/helpapp/marketplace/internal/model"
	"github.com/helpapp/marketplace/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	identities map[string]*model.Identity
	err        error
	calls      int
}

func (s *stubLookup) FindIdentityByID(_ context.Context, id string) (*model.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.identities[id], nil
}

func newGate(t *testing.T) (*Authenticator, *utils.JWTUtil, *stubLookup) {
	t.Helper()
	tokens := utils.NewJWTUtil("gate-secret", time.Hour)
	lookup := &stubLookup{identities: map[string]*model.Identity{
		"u-1": {ID: "u-1", Email: "a@b.com", Role: model.RoleClient},
	}}
	return NewAuthenticator(tokens, lookup), tokens, lookup
}

func issue(t *testing.T, tokens *utils.JWTUtil, subject string) string {
	t.Helper()
	token, err := tokens.GenerateToken(utils.IdentityClaims{SubjectID: subject, Email: "a@b.com", Role: model.RoleClient})
	require.NoError(t, err)
	return token
}

func TestAuthenticate_FromRequest(t *testing.T) {
	gate, tokens, _ := newGate(t)
	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, tokens, "u-1"))

	identity, err := gate.Authenticate(context.Background(), FromRequest(req))
	require.NoError(t, err)
	assert.Equal(t, "u-1", identity.ID)
	assert.Equal(t, model.RoleClient, identity.Role)
}

func TestAuthenticate_BothShapesAgree(t *testing.T) {
	gate, tokens, _ := newGate(t)
	token := issue(t, tokens, "u-1")

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	fromReq, err := gate.Authenticate(context.Background(), FromRequest(req))
	require.NoError(t, err)

	fromHeaders, err := gate.Authenticate(context.Background(), FromHeaders(map[string]string{"authorization": "Bearer " + token}))
	require.NoError(t, err)

	assert.Equal(t, fromReq, fromHeaders)

	_, err = gate.Authenticate(context.Background(), FromHeaders(map[string]string{}))
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	gate, tokens, lookup := newGate(t)
	otherSecret := utils.NewJWTUtil("other-secret", time.Hour)
	expired := utils.NewJWTUtil("gate-secret", -time.Hour)

	cases := map[string]string{
		"missing header":  "",
		"not bearer":      "Basic dXNlcjpwYXNz",
		"garbage token":   "Bearer not.a.jwt",
		"wrong secret":    "Bearer " + issue(t, otherSecret, "u-1"),
		"expired":         "Bearer " + issue(t, expired, "u-1"),
		"unknown subject": "Bearer " + issue(t, tokens, "deleted-user"),
		"bearer no token": "Bearer",
		"too many parts":  "Bearer a b",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := gate.Authenticate(context.Background(), FromHeaders(map[string]string{"Authorization": header}))
			assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
			assert.Equal(t, apperr.ErrUnauthenticated.Error(), err.Error())
		})
	}
	// Only the unknown-subject token ever reached the store.
	assert.Equal(t, 1, lookup.calls)
}

func TestAuthenticate_StoreFailureIsInternal(t *testing.T) {
	gate, tokens, lookup := newGate(t)
	lookup.err = errors.New("connection refused")

	_, err := gate.Authenticate(context.Background(), FromHeaders(map[string]string{"Authorization": "Bearer " + issue(t, tokens, "u-1")}))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = BearerToken("abc")
	assert.False(t, ok)
}
