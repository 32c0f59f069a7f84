// Package token issues and verifies the signed JWT pair used for
// authentication: a short-lived access token and a long-lived refresh token.
// The two types are signed with different secrets so that possession of one
// never lets the holder mint the other.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// Claims is the payload embedded in both token types. The user id travels in
// the registered "sub" claim.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// Issuer creates and verifies access and refresh tokens.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer builds an Issuer. TTLs fall back to 15m / 7d when non-positive.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL exposes the refresh token lifetime so the transport layer can
// align the cookie max-age with it.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess signs a short-lived access token for the user.
func (i *Issuer) IssueAccess(userID string, roles []string) (string, error) {
	return i.sign(userID, roles, i.accessSecret, i.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user.
func (i *Issuer) IssueRefresh(userID string, roles []string) (string, error) {
	return i.sign(userID, roles, i.refreshSecret, i.refreshTTL)
}

func (i *Issuer) sign(userID string, roles []string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// VerifyAccess validates an access token and returns its claims.
func (i *Issuer) VerifyAccess(tokenString string) (*Claims, error) {
	return verify(tokenString, i.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(tokenString string) (*Claims, error) {
	return verify(tokenString, i.refreshSecret)
}

// verify parses and validates a token. Every library failure mode (expired,
// malformed, bad signature, wrong algorithm) is normalized to
// domain.ErrInvalidOrExpiredToken so callers return a uniform 401 and no
// library detail leaks to the client.
func verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	return claims, nil
}
