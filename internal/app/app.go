// Package app wires the client: durable store, session, navigator, API client
// and every service built on top of them.
package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/alpha-client/account"
	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/auth"
	"github.com/jrsteele09/alpha-client/consent"
	"github.com/jrsteele09/alpha-client/cycles"
	"github.com/jrsteele09/alpha-client/goals"
	"github.com/jrsteele09/alpha-client/guard"
	"github.com/jrsteele09/alpha-client/internal/config"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/meds"
	"github.com/jrsteele09/alpha-client/profiles"
	"github.com/jrsteele09/alpha-client/reminders"
	"github.com/jrsteele09/alpha-client/reports"
	"github.com/jrsteele09/alpha-client/session"
	"github.com/jrsteele09/alpha-client/symptoms"
	"github.com/jrsteele09/alpha-client/tokenstore"
	"github.com/jrsteele09/alpha-client/tokenstore/filestore"
	"github.com/jrsteele09/alpha-client/vitals"
)

type App struct {
	Config  config.Config
	Store   tokenstore.Store
	Session *session.Context
	Nav     *guard.Navigator
	Client  *apiclient.Client

	Auth      *auth.Service
	Vitals    *vitals.Service
	Symptoms  *symptoms.Service
	Cycles    *cycles.Service
	Goals     *goals.Service
	Reminders *reminders.Service
	Reports   *reports.Service
	Consent   *consent.Service
	Profiles  *profiles.Service
	Account   *account.Service
	Meds      *meds.Service
}

type options struct {
	store      tokenstore.Store
	httpClient *http.Client
}

type Option func(*options)

// WithStore replaces the session file with store.
func WithStore(store tokenstore.Store) Option {
	return func(o *options) { o.store = store }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func New(cfg config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", apperrors.ErrInvalidRequest)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = filestore.New(cfg.GetDataFolder(), cfg.GetSessionFileName())
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.GetHTTPTimeout()}
	}

	a := &App{Config: cfg, Store: o.store}
	a.Session = session.New(a.Store)
	a.Nav = guard.NewNavigator(guard.New(a.Session), guard.WithOnChange(func(from, to string) {
		log.Debug().Str("from", from).Str("to", to).Msg("navigate")
	}))

	clientOpts := []apiclient.Option{
		apiclient.WithHTTPClient(o.httpClient),
		apiclient.WithSession(a.Session),
		apiclient.WithTokenStore(a.Store),
		apiclient.WithRedirector(a.Nav),
		apiclient.WithRefreshPath(cfg.GetRefreshPath()),
		apiclient.WithUserAgent(cfg.GetUserAgent()),
	}
	if cfg.GetRefreshCoalescing() {
		clientOpts = append(clientOpts, apiclient.WithRefreshCoalescing())
	}
	a.Client = apiclient.New(cfg.GetAPIBase(), clientOpts...)

	a.Auth = auth.NewService(a.Client, a.Session, a.Store, a.Nav)
	a.Vitals = vitals.NewService(a.Client)
	a.Symptoms = symptoms.NewService(a.Client)
	a.Cycles = cycles.NewService(a.Client)
	a.Goals = goals.NewService(a.Client)
	a.Reminders = reminders.NewService(a.Client)
	a.Reports = reports.NewService(a.Client)
	a.Consent = consent.NewService(a.Client)
	a.Profiles = profiles.NewService(a.Client)
	a.Account = account.NewService(a.Client, a.Session)
	a.Meds = meds.NewService(a.Client)
	return a, nil
}

// Enter navigates to route through the guard and returns ErrLoginRequired when
// it lands on login instead.
func (a *App) Enter(route string) error {
	reached := a.Nav.Navigate(route)
	if reached == guard.RouteLogin && route != guard.RouteLogin {
		return fmt.Errorf("%w: %s", apperrors.ErrLoginRequired, route)
	}
	return nil
}
