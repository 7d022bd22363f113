// README: JWT issuance and the token verifier consumed by the auth middleware.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken holds the verified token data used by downstream middleware.
type AccessToken struct {
	UID  string
	Role string
}

// TokenVerifier verifies a raw bearer token string and returns token data.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (*AccessToken, error)
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthority signs and verifies HS256 access tokens.
type JWTAuthority struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTAuthority(secret, issuer string, ttl time.Duration) *JWTAuthority {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTAuthority{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// IssueToken signs a token for the given subject and role.
func (a *JWTAuthority) IssueToken(subject, role string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("subject is empty")
	}
	now := time.Now()
	expiresAt := now.Add(a.ttl)
	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (a *JWTAuthority) VerifyToken(_ context.Context, raw string) (*AccessToken, error) {
	token, err := jwt.ParseWithClaims(raw, &accessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(a.issuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenMalformed
	}
	return &AccessToken{UID: claims.Subject, Role: claims.Role}, nil
}
