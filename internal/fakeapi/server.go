// Package fakeapi is an in-memory implementation of the ALPHA REST API used
// for local development and end to end tests of the client.
package fakeapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/alpha-client/consent"
	"github.com/jrsteele09/alpha-client/cycles"
	"github.com/jrsteele09/alpha-client/goals"
	"github.com/jrsteele09/alpha-client/internal/fakeapi/refresh"
	refreshrepofake "github.com/jrsteele09/alpha-client/internal/fakeapi/refresh/repofake"
	"github.com/jrsteele09/alpha-client/internal/fakeapi/users"
	fakeuserrepo "github.com/jrsteele09/alpha-client/internal/fakeapi/users/repofake"
	"github.com/jrsteele09/alpha-client/profiles"
	"github.com/jrsteele09/alpha-client/reminders"
	"github.com/jrsteele09/alpha-client/symptoms"
	"github.com/jrsteele09/alpha-client/vitals"
)

const (
	defaultSecret         = "alpha-dev-secret"
	defaultIssuer         = "alpha-devapi"
	defaultAccessTokenTTL = 15 * time.Minute
	defaultLoginLimit     = 10
	loginWindow           = time.Minute
)

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	now    func() time.Time

	users   users.Repo
	refresh *refresh.Manager
	tokens  *accessTokens
	hooks   *Hooks

	loginLimit    int
	loginMu       sync.Mutex
	loginAttempts map[string][]time.Time

	vitals    *records[vitals.VitalOut]
	symptoms  *records[symptoms.SymptomOut]
	cycles    *records[cycles.CycleOut]
	goals     *records[goals.GoalOut]
	reminders *records[reminders.ReminderOut]
	consents  *records[consent.Consent]
	profiles  *records[profiles.Profile]
	pushSubs  *records[reminders.PushSubscription]
}

type config struct {
	env        string
	secret     string
	issuer     string
	ttl        time.Duration
	now        func() time.Time
	loginLimit int
	refreshOpt []refresh.ManagerOption
}

type Option func(*config)

// WithEnv sets the environment name; "DEV" logs every registered route.
func WithEnv(env string) Option {
	return func(c *config) { c.env = env }
}

func WithSecret(secret string) Option {
	return func(c *config) { c.secret = secret }
}

func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithLoginLimit caps login attempts per client address per minute; 0
// disables the limit.
func WithLoginLimit(n int) Option {
	return func(c *config) { c.loginLimit = n }
}

// WithRefreshReuseGrace sets how long a rotated refresh token keeps
// answering with its successor; 0 makes refresh tokens single use.
func WithRefreshReuseGrace(grace time.Duration) Option {
	return func(c *config) { c.refreshOpt = append(c.refreshOpt, refresh.WithReuseGrace(grace)) }
}

func New(options ...Option) *Server {
	cfg := config{
		secret:     defaultSecret,
		issuer:     defaultIssuer,
		ttl:        defaultAccessTokenTTL,
		now:        time.Now,
		loginLimit: defaultLoginLimit,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	s := &Server{
		env:           cfg.env,
		mux:           http.NewServeMux(),
		now:           cfg.now,
		users:         fakeuserrepo.NewFakeUserRepo(),
		refresh:       refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg.refreshOpt...),
		tokens:        newAccessTokens(cfg.secret, cfg.issuer, cfg.ttl, cfg.now),
		loginLimit:    cfg.loginLimit,
		loginAttempts: make(map[string][]time.Time),

		vitals:    newRecords(func(v *vitals.VitalOut) string { return v.ID }),
		symptoms:  newRecords(func(v *symptoms.SymptomOut) string { return v.ID }),
		cycles:    newRecords(func(v *cycles.CycleOut) string { return v.ID }),
		goals:     newRecords(func(v *goals.GoalOut) string { return v.ID }),
		reminders: newRecords(func(v *reminders.ReminderOut) string { return v.ID }),
		consents:  newRecords(func(v *consent.Consent) string { return v.ID }),
		profiles:  newRecords(func(v *profiles.Profile) string { return v.UserID }),
		pushSubs:  newRecords(func(v *reminders.PushSubscription) string { return v.Endpoint }),
	}
	s.hooks = newHooks(s)

	s.initRoutes()
	s.logRoutes()
	return s
}

// Hooks returns the test controls of the server.
func (s *Server) Hooks() *Hooks {
	return s.hooks
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		method, path, found := strings.Cut(route, " ")
		if !found {
			method, path = "", route
		}
		log.Info().Str("method", method).Str("path", path).Msg("route")
	}
}

// allowLogin applies the per-address login rate limit.
func (s *Server) allowLogin(addr string) bool {
	if s.loginLimit <= 0 {
		return true
	}
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	now := s.now()
	recent := s.loginAttempts[addr][:0]
	for _, t := range s.loginAttempts[addr] {
		if now.Sub(t) < loginWindow {
			recent = append(recent, t)
		}
	}
	if len(recent) >= s.loginLimit {
		s.loginAttempts[addr] = recent
		return false
	}
	s.loginAttempts[addr] = append(recent, now)
	return true
}

// deleteUserData removes every record owned by userID.
func (s *Server) deleteUserData(userID string) {
	s.vitals.removeUser(userID)
	s.symptoms.removeUser(userID)
	s.cycles.removeUser(userID)
	s.goals.removeUser(userID)
	s.reminders.removeUser(userID)
	s.consents.removeUser(userID)
	s.profiles.removeUser(userID)
	s.pushSubs.removeUser(userID)
	s.refresh.RevokeUser(userID)
}
