package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpapp/marketplace/internal/model"
)

var testClaims = IdentityClaims{SubjectID: "8c1f6a7e-user", Email: "a@b.com", Role: model.RoleClient}

func TestJWTUtil_GenerateToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	tokenString, err := jwtUtil.GenerateToken(testClaims)

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, testClaims, *claims)
}

func TestJWTUtil_GenerateToken_EmptySubject(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	_, err := jwtUtil.GenerateToken(IdentityClaims{Email: "a@b.com", Role: model.RoleClient})
	assert.Error(t, err)
}

func TestJWTUtil_DefaultExpiryIsSevenDays(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	jwtUtil := NewJWTUtil("secret", 0).WithClock(func() time.Time { return now })

	tokenString, err := jwtUtil.GenerateToken(testClaims)
	require.NoError(t, err)

	parsed := &JWTClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tokenString, parsed)
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour).Unix(), parsed.ExpiresAt.Unix())
}

func TestJWTUtil_ValidateToken_ValidUntilExpiry(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	jwtUtil := NewJWTUtil("secret", time.Hour).WithClock(func() time.Time { return clock })

	tokenString, err := jwtUtil.GenerateToken(testClaims)
	require.NoError(t, err)

	clock = issued.Add(59 * time.Minute)
	claims, err := jwtUtil.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, testClaims, *claims)

	clock = issued.Add(61 * time.Minute)
	_, err = jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour) // Token expires in the past

	tokenString, err := jwtUtil.GenerateToken(testClaims)
	require.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour)

	tokenString, _ := jwtUtil1.GenerateToken(testClaims)

	_, err := jwtUtil2.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	claims := &JWTClaims{
		Email: "a@b.com",
		Role:  model.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	// Same secret; HMAC keys are interchangeable between HS256 and HS384
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTUtil_ValidateToken_MissingExpiry(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	})
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTUtil_ValidateToken_MissingSubject(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
