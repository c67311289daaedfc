package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgerly-app/ledgerly-backend/internal/auth/domain"
)

// Claims binds the owning user to the standard expiry claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Issuer mints and verifies HS256 session tokens. The secret is loaded
// once at startup and injected here, never read from the environment per
// call.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a token binding userID with expiry now+ttl.
func (i *Issuer) Issue(userID string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: userID,
	})
	return t.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Every failure collapses to domain.ErrInvalidToken so callers cannot
// leak the cause to the client.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || claims.UserID == "" {
		return "", domain.ErrInvalidToken
	}

	return claims.UserID, nil
}
