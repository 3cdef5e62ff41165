// Package session holds the current access token for every consumer in the
// process and mirrors it to a tokenstore.Store.
package session

import (
	"sync"

	"github.com/jrsteele09/alpha-client/tokenstore"
)

// Context is the single source of truth for the in-memory access token.
// It is safe for concurrent use.
type Context struct {
	store tokenstore.Store

	mu          sync.RWMutex
	token       string
	nextID      int
	subscribers map[int]func(token string)
}

// New builds a Context initialised from durable storage.
func New(store tokenstore.Store) *Context {
	return &Context{
		store:       store,
		token:       store.Load().AccessToken,
		subscribers: make(map[int]func(string)),
	}
}

// Token returns the current access token, "" when unauthenticated.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Context) IsAuthenticated() bool {
	return c.Token() != ""
}

// SetToken replaces the access token and notifies subscribers. A non-empty
// token is mirrored to the store; an empty one only resets memory, use Clear to
// drop the durable copy as well.
func (c *Context) SetToken(token string) {
	if token != "" {
		c.store.Save(token, nil)
	}
	c.set(token)
}

// SetCredentials replaces the access token and, when creds carries one, the
// stored refresh token, in a single store write.
func (c *Context) SetCredentials(creds tokenstore.Credentials) {
	if creds.AccessToken == "" {
		c.set("")
		return
	}
	c.store.Save(creds.AccessToken, creds.RefreshToken)
	c.set(creds.AccessToken)
}

// Clear resets the session to unauthenticated and removes the durable copy.
func (c *Context) Clear() {
	c.store.Clear()
	c.set("")
}

// Subscribe registers fn to be called with the new token after every change.
// The returned func removes the subscription.
func (c *Context) Subscribe(fn func(token string)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
		})
	}
}

func (c *Context) set(token string) {
	c.mu.Lock()
	changed := c.token != token
	c.token = token
	subs := make([]func(string), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(token)
	}
}
