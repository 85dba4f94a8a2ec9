// ABOUTME: Unverified decode of bearer token claims for display purposes
// ABOUTME: The backend verifies signatures; the client only reads subject, role and expiry

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields the backend puts in its access tokens
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the token expiry has passed at now.
// Tokens without an expiry never expire client-side.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes a JWT without verifying its signature.
// Opaque tokens return an error.
func ParseClaims(token string) (*Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("token is not a JWT: %w", err)
	}

	claims := &Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		claims.Subject = sub
	}
	if role, ok := mc["role"].(string); ok {
		claims.Role = Role(role)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
