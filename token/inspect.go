// Package token reads the claims of an access token for display. It never
// verifies signatures and never decides whether a token is usable; only the
// API does that.
package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Introspection is what an unverified access token claims about itself.
type Introspection struct {
	Subject   string     `json:"sub,omitempty" yaml:"sub,omitempty"`
	Issuer    string     `json:"iss,omitempty" yaml:"iss,omitempty"`
	ID        string     `json:"jti,omitempty" yaml:"jti,omitempty"`
	IssuedAt  *time.Time `json:"iat,omitempty" yaml:"iat,omitempty"`
	ExpiresAt *time.Time `json:"exp,omitempty" yaml:"exp,omitempty"`
}

// ExpiresIn is the time left before the claimed expiry, negative once past.
// ok is false when the token carries no exp claim.
func (i *Introspection) ExpiresIn() (d time.Duration, ok bool) {
	if i.ExpiresAt == nil {
		return 0, false
	}
	return i.ExpiresAt.Sub(NowTimeFunc()), true
}

// Inspect parses raw without verifying it.
func Inspect(raw string) (*Introspection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.ErrMissingAccessToken
	}

	claims := jwtlib.RegisteredClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDecode, err)
	}

	out := &Introspection{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		out.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	return out, nil
}
