// Package auth drives the login, register, refresh and logout endpoints and
// keeps the token store, session and navigator consistent with their outcome.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/guard"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/validation"
	"github.com/jrsteele09/alpha-client/tokenstore"
)

const (
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthLogout   = "/auth/logout"
	RouteAuthMe       = "/auth/me"
)

// API is the part of *apiclient.Client the service needs.
type API interface {
	apiclient.Doer
	Refresh(ctx context.Context) (string, error)
}

// Session is the in-memory token holder.
type Session interface {
	SetCredentials(creds tokenstore.Credentials)
	Clear()
}

// Navigator moves the user after an auth state change.
type Navigator interface {
	Navigate(target string) string
	RedirectToLogin()
}

type Service struct {
	api     API
	session Session
	store   tokenstore.Store
	nav     Navigator
}

func NewService(api API, session Session, store tokenstore.Store, nav Navigator) *Service {
	return &Service{
		api:     api,
		session: session,
		store:   store,
		nav:     nav,
	}
}

// Login exchanges credentials for a session and navigates to the dashboard.
func (s *Service) Login(ctx context.Context, email, password string) (tokenstore.Credentials, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := validation.Struct(req); err != nil {
		return tokenstore.Credentials{}, err
	}

	creds, err := s.authenticate(ctx, RouteAuthLogin, req)
	if err != nil {
		var reqErr *apiclient.RequestError
		if apperrors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
			return tokenstore.Credentials{}, apperrors.Join(apperrors.ErrInvalidCredentials, err)
		}
		return tokenstore.Credentials{}, fmt.Errorf("login: %w", err)
	}
	return creds, nil
}

// Register creates an account. The API signs the new user in straight away.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (tokenstore.Credentials, error) {
	if err := validation.Struct(req); err != nil {
		return tokenstore.Credentials{}, err
	}

	creds, err := s.authenticate(ctx, RouteAuthRegister, req)
	if err != nil {
		return tokenstore.Credentials{}, fmt.Errorf("register: %w", err)
	}
	return creds, nil
}

func (s *Service) authenticate(ctx context.Context, path string, body any) (tokenstore.Credentials, error) {
	resp, err := s.api.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Path:     path,
		Body:     body,
		SkipAuth: true,
	})
	if err != nil {
		return tokenstore.Credentials{}, err
	}

	var tr tokenstore.TokenResponse
	if err := resp.Decode(&tr); err != nil {
		return tokenstore.Credentials{}, err
	}
	creds, ok := tr.Credentials()
	if !ok {
		return tokenstore.Credentials{}, apperrors.ErrMissingAccessToken
	}

	s.session.SetCredentials(creds)
	s.nav.Navigate(guard.RouteDashboard)

	log.Info().Str("path", path).Bool("refresh_token", creds.RefreshToken != nil).Msg("signed in")
	return creds, nil
}

// Refresh renews the access token on demand. On failure the session has been
// cleared and ErrUnauthenticated is returned.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	return s.api.Refresh(ctx)
}

// Logout revokes the refresh token when there is one, then clears every copy
// of the session and navigates to login. It never fails and is safe to call
// without a session.
func (s *Service) Logout(ctx context.Context) {
	creds := s.store.Load()
	if creds.RefreshToken != nil && *creds.RefreshToken != "" {
		_, err := s.api.Do(ctx, apiclient.Request{
			Method:   http.MethodPost,
			Path:     RouteAuthLogout,
			Body:     refreshTokenRequest{RefreshToken: *creds.RefreshToken},
			SkipAuth: true,
		})
		if err != nil {
			log.Warn().Err(err).Msg("logout request failed, clearing local session anyway")
		}
	}

	s.session.Clear()
	s.nav.RedirectToLogin()
}

// Me returns the signed in user.
func (s *Service) Me(ctx context.Context) (*Me, error) {
	return apiclient.Get[Me](ctx, s.api, RouteAuthMe)
}
