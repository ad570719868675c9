package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenPayload is what a verified session token resolves to.
type TokenPayload struct {
	UserID uint64
}

// CurrentUserProvider resolves an opaque session token to a user id. How the
// token was issued (OAuth callback, login form) is outside this service.
type CurrentUserProvider interface {
	Resolve(token string) (*TokenPayload, error)
}

type tokenClaims struct {
	UserID uint64 `json:"uid"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTProvider(secret string, ttl time.Duration) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl}
}

// issueToken mints a signed token for userID. Production tokens are issued
// by the surrounding application; this exists for the verification tests.
func (p *JWTProvider) issueToken(userID uint64) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func (p *JWTProvider) Resolve(tokenString string) (*TokenPayload, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return &TokenPayload{UserID: claims.UserID}, nil
}
