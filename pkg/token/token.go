package token

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims structure for actor claims in JWT
type Claims struct {
	ActorID   string `json:"actor_id"`
	ActorKind string `json:"actor_kind"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

var (
	secretMu        sync.RWMutex
	jwtSecret       = []byte("secure_secret_key")
	jwtIssuer       = "member_service"
	tokenExpiration = 60 * time.Minute

	// ErrMissingToken no credential provided
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken credential can't be verified
	ErrInvalidToken = errors.New("invalid token")
)

// Configure replace the HMAC secret and the expected issuer, an empty secret is refused
func Configure(secret, issuer string) error {
	if secret == "" {
		return errors.New("jwt secret is empty")
	}
	secretMu.Lock()
	defer secretMu.Unlock()
	jwtSecret = []byte(secret)
	jwtIssuer = issuer
	return nil
}

func secret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return jwtSecret
}

func issuer() string {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return jwtIssuer
}

// GenerateJWT generates a JWT token for an actor. Identity is issued elsewhere,
// this is used by tests and the dev token tool.
func GenerateJWT(actorID, actorKind, name, issuer string) (string, error) {
	claims := Claims{
		ActorID:   actorID,
		ActorKind: actorKind,
		Name:      name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// ParseJWT parses a JWT and extracts the Claims
func ParseJWT(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimSpace(strings.TrimPrefix(tokenStr, "Bearer "))
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	var opts []jwt.ParserOption
	if iss := issuer(); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret(), nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ActorID == "" || claims.ActorKind == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
