package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	tk, err := GenerateJWT("c-1", "candidate", "Ada", "member_service")
	require.NoError(t, err)

	claims, err := ParseJWT("Bearer " + tk)
	require.NoError(t, err)
	assert.Equal(t, "c-1", claims.ActorID)
	assert.Equal(t, "candidate", claims.ActorKind)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "member_service", claims.Issuer)
}

func TestParseJWTRejects(t *testing.T) {
	_, err := ParseJWT("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = ParseJWT("Bearer garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ActorID:   "c-1",
		ActorKind: "candidate",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	tk, err := expired.SignedString(secret())
	require.NoError(t, err)
	_, err = ParseJWT(tk)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// 沒有 actor 的 token 不接受
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	tk, err = anonymous.SignedString(secret())
	require.NoError(t, err)
	_, err = ParseJWT(tk)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseJWTWrongIssuer(t *testing.T) {
	tk, err := GenerateJWT("c-1", "candidate", "Ada", "anyone-at-all")
	require.NoError(t, err)

	_, err = ParseJWT(tk)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestConfigure(t *testing.T) {
	oldSecret, oldIssuer := secret(), issuer()
	defer func() { _ = Configure(string(oldSecret), oldIssuer) }()

	tk, err := GenerateJWT("o-1", "organization", "Acme", "member_service")
	require.NoError(t, err)

	assert.Error(t, Configure("", "member_service"))
	assert.Equal(t, oldSecret, secret())

	require.NoError(t, Configure("rotated", "member_service"))
	_, err = ParseJWT(tk)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, Configure("rotated", "hr_service"))
	tk, err = GenerateJWT("o-1", "organization", "Acme", "hr_service")
	require.NoError(t, err)
	claims, err := ParseJWT(tk)
	require.NoError(t, err)
	assert.Equal(t, "hr_service", claims.Issuer)
}
