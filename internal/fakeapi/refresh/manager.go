package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var ErrExpired = errors.New("refresh token expired")

const (
	defaultTokenLength = 32
	defaultExpiry      = 30 * 24 * time.Hour
	defaultReuseGrace  = 30 * time.Second
)

// Manager handles refresh token creation, validation and rotation.
//
// A rotated token keeps working for the reuse grace period and answers with
// the token it was rotated to, so concurrent refreshes presenting the same
// token all succeed.
type Manager struct {
	repo        Repo
	tokenLength int
	expiry      time.Duration
	reuseGrace  time.Duration

	mu sync.Mutex
}

type ManagerOption func(*Manager)

func WithExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) { m.expiry = expiry }
}

// WithReuseGrace sets how long a rotated token is still accepted; 0 makes
// every token single use.
func WithReuseGrace(grace time.Duration) ManagerOption {
	return func(m *Manager) { m.reuseGrace = grace }
}

func NewManager(repo Repo, opts ...ManagerOption) *Manager {
	m := &Manager{
		repo:        repo,
		tokenLength: defaultTokenLength,
		expiry:      defaultExpiry,
		reuseGrace:  defaultReuseGrace,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create issues a new refresh token for userID, replacing any existing one.
func (m *Manager) Create(userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, err := m.repo.GetByUserID(userID); err == nil && existing != nil {
		if err := m.repo.Delete(existing.Token); err != nil {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}
	return m.issue(userID)
}

func (m *Manager) issue(userID string) (string, error) {
	tokenStr, err := m.newToken()
	if err != nil {
		return "", err
	}
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return tokenStr, nil
}

func (m *Manager) newToken() (string, error) {
	tokenBytes := make([]byte, m.tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// Rotate validates token and replaces it with a new one for the same user. A
// token rotated less than the reuse grace period ago returns the user's
// current token instead of issuing another.
func (m *Manager) Rotate(token string) (userID, next string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, err := m.repo.Get(token)
	if err != nil {
		return "", "", err
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return "", "", ErrExpired
	}
	if rt.Successor != "" {
		current, err := m.successorOf(rt)
		if err != nil {
			_ = m.repo.Delete(token)
			return "", "", err
		}
		return rt.UserID, current.Token, nil
	}

	next, err = m.newToken()
	if err != nil {
		return "", "", err
	}
	rotated := *rt
	rotated.Successor = next
	rotated.RotatedAt = NowTimeFunc()
	if err := m.repo.Upsert(&rotated); err != nil {
		return "", "", fmt.Errorf("failed to mark refresh token rotated: %w", err)
	}
	// Upserted last so it becomes the user's current token.
	if err := m.repo.Upsert(&StoredRefreshToken{Token: next, UserID: rt.UserID, Iat: NowTimeFunc()}); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rt.UserID, next, nil
}

// successorOf follows the rotation chain from rt to the current token while
// every hop is inside the reuse grace period.
func (m *Manager) successorOf(rt *StoredRefreshToken) (*StoredRefreshToken, error) {
	now := NowTimeFunc()
	for rt.Successor != "" {
		if now.Sub(rt.RotatedAt) >= m.reuseGrace {
			return nil, ErrNotFound
		}
		next, err := m.repo.Get(rt.Successor)
		if err != nil {
			return nil, ErrNotFound
		}
		rt = next
	}
	return rt, nil
}

// Revoke ends the session token belongs to, including any token it was
// rotated to; unknown tokens are ignored.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, err := m.repo.Get(token)
	if err != nil {
		return
	}
	_ = m.repo.Delete(token)
	if rt.Successor != "" {
		_ = m.repo.DeleteByUserID(rt.UserID)
	}
}

// RevokeUser deletes the current refresh token of userID. Rotated tokens
// still stored lead nowhere afterwards.
func (m *Manager) RevokeUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.repo.DeleteByUserID(userID)
}

func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return NowTimeFunc().Sub(rt.Iat) > m.expiry
}
