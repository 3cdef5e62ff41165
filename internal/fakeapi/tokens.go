package fakeapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errInvalidAccessToken = errors.New("invalid access token")

// accessTokens mints and verifies HS256 access tokens.
type accessTokens struct {
	secret []byte
	issuer string
	now    func() time.Time

	mu  sync.RWMutex
	ttl time.Duration
}

func newAccessTokens(secret, issuer string, ttl time.Duration, now func() time.Time) *accessTokens {
	return &accessTokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    now,
	}
}

func (a *accessTokens) setTTL(ttl time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ttl = ttl
}

func (a *accessTokens) lifetime() time.Duration {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ttl
}

func (a *accessTokens) Create(userID string) (string, error) {
	now := a.now()
	claims := jwtlib.MapClaims{
		"iss":        a.issuer,
		"sub":        userID,
		"iat":        now.Unix(),
		"exp":        now.Add(a.lifetime()).Unix(),
		"jti":        uuid.New().String(),
		"token_type": "access",
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry and returns the subject.
func (a *accessTokens) Verify(raw string) (string, error) {
	claims := jwtlib.RegisteredClaims{}
	_, err := jwtlib.ParseWithClaims(raw, &claims, a.verificationKey,
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(a.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", errors.Join(errInvalidAccessToken, err)
	}
	if claims.Subject == "" {
		return "", errInvalidAccessToken
	}
	return claims.Subject, nil
}

func (a *accessTokens) verificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return a.secret, nil
}
