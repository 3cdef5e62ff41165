package apiclient

import (
	"sync"

	"github.com/jrsteele09/alpha-client/tokenstore"
)

// memorySession is used when no session is injected.
type memorySession struct {
	mu    sync.RWMutex
	token string
}

func (s *memorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *memorySession) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

type nopStore struct{}

func (nopStore) Save(string, *string)         {}
func (nopStore) Load() tokenstore.Credentials { return tokenstore.Credentials{} }
func (nopStore) Clear()                       {}

type nopRedirector struct{}

func (nopRedirector) RedirectToLogin() {}
