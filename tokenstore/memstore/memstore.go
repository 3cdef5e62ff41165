package memstore

import (
	"sync"

	"github.com/jrsteele09/alpha-client/tokenstore"
)

var _ tokenstore.Store = (*Store)(nil)

type Option func(*Store)

// WithCredentials seeds the store.
func WithCredentials(accessToken string, refreshToken *string) Option {
	return func(s *Store) { s.save(accessToken, refreshToken) }
}

// WithUnavailable makes every operation behave like disabled storage.
func WithUnavailable() Option {
	return func(s *Store) { s.unavailable = true }
}

// Store keeps credentials in memory, keyed like durable storage.
type Store struct {
	mu          sync.RWMutex
	values      map[string]string
	unavailable bool
	saves       int
	clears      int
}

func New(opts ...Option) *Store {
	s := &Store{values: make(map[string]string)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Save(accessToken string, refreshToken *string) {
	if s.unavailable {
		return
	}
	s.save(accessToken, refreshToken)
}

func (s *Store) save(accessToken string, refreshToken *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if accessToken == "" {
		delete(s.values, tokenstore.KeyAccessToken)
	} else {
		s.values[tokenstore.KeyAccessToken] = accessToken
	}
	if refreshToken != nil {
		if *refreshToken == "" {
			delete(s.values, tokenstore.KeyRefreshToken)
		} else {
			s.values[tokenstore.KeyRefreshToken] = *refreshToken
		}
	}
}

func (s *Store) Load() tokenstore.Credentials {
	if s.unavailable {
		return tokenstore.Credentials{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds := tokenstore.Credentials{AccessToken: s.values[tokenstore.KeyAccessToken]}
	if rt, ok := s.values[tokenstore.KeyRefreshToken]; ok {
		creds.RefreshToken = &rt
	}
	return creds
}

func (s *Store) Clear() {
	if s.unavailable {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	delete(s.values, tokenstore.KeyAccessToken)
	delete(s.values, tokenstore.KeyRefreshToken)
}

// Value returns the raw value of a storage key.
func (s *Store) Value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Len is the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Saves returns how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Clears returns how many times Clear ran.
func (s *Store) Clears() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clears
}
