package fakeapi

import (
	"sync"
	"time"
)

// Hooks lets tests steer the API into failure paths and observe traffic.
type Hooks struct {
	server *Server

	mu          sync.Mutex
	reject      int
	failRefresh bool
	calls       map[string]int
}

func newHooks(s *Server) *Hooks {
	return &Hooks{server: s, calls: make(map[string]int)}
}

// RejectNext makes the next n authenticated requests answer 401 whatever
// token they carry.
func (h *Hooks) RejectNext(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reject = n
}

// FailRefresh makes /auth/refresh answer 401 while set.
func (h *Hooks) FailRefresh(fail bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failRefresh = fail
}

// SetAccessTokenTTL changes the lifetime of access tokens issued from now on.
func (h *Hooks) SetAccessTokenTTL(ttl time.Duration) {
	h.server.tokens.setTTL(ttl)
}

// Calls returns how many requests matched "METHOD /path" (path without query).
func (h *Hooks) Calls(method, path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[method+" "+path]
}

// Reset clears counters and failure switches.
func (h *Hooks) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reject = 0
	h.failRefresh = false
	h.calls = make(map[string]int)
}

func (h *Hooks) record(method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls[method+" "+path]++
}

func (h *Hooks) consumeReject() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reject <= 0 {
		return false
	}
	h.reject--
	return true
}

func (h *Hooks) refreshDisabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failRefresh
}
