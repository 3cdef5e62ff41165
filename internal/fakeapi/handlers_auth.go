package fakeapi

import (
	"errors"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/alpha-client/auth"
	"github.com/jrsteele09/alpha-client/consent"
	"github.com/jrsteele09/alpha-client/internal/fakeapi/users"
	"github.com/jrsteele09/alpha-client/internal/validation"
	"github.com/jrsteele09/alpha-client/tokenstore"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := validation.Struct(req); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			log.Err(err).Msg("hash password")
			writeDetail(w, http.StatusInternalServerError, "Could not create account")
			return
		}
		now := s.now()
		user := &users.User{Email: req.Email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
		if err := s.users.Create(user); err != nil {
			if errors.Is(err, users.ErrEmailInUse) {
				writeDetail(w, http.StatusBadRequest, "Email already registered")
				return
			}
			writeDetail(w, http.StatusInternalServerError, "Could not create account")
			return
		}

		if req.ConsentPrivacy {
			s.consents.add(user.ID, consent.Consent{
				ID:              uuid.New().String(),
				UserID:          user.ID,
				CreatedAt:       now,
				PrivacyAccepted: true,
				MarketingOptIn:  req.ConsentMarketing,
			})
		}

		s.issueTokens(w, http.StatusCreated, user.ID)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.allowLogin(clientAddr(r)) {
			writeDetail(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
			return
		}

		var req auth.LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := validation.Struct(req); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		user, err := s.users.GetByEmail(req.Email)
		if err != nil || user.CheckPassword(req.Password) != nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		_ = s.users.SetLoggedIn(user.ID, s.now())

		s.issueTokens(w, http.StatusOK, user.ID)
	}
}

// RefreshHandler rotates the refresh token. A token already rotated within the
// reuse grace period gets the same successor back.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.RefreshToken == "" || s.hooks.refreshDisabled() {
			writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}

		userID, next, err := s.refresh.Rotate(req.RefreshToken)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		access, err := s.tokens.Create(userID)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Could not issue token")
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse(access, next))
	}
}

// LogoutHandler revokes the refresh token; unknown tokens are not an error.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		s.refresh.Revoke(req.RefreshToken)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.users.GetByID(userIDFrom(r))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, auth.Me{ID: user.ID, Email: user.Email})
	}
}

func (s *Server) issueTokens(w http.ResponseWriter, status int, userID string) {
	access, err := s.tokens.Create(userID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	refreshToken, err := s.refresh.Create(userID)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeJSON(w, status, tokenResponse(access, refreshToken))
}

func tokenResponse(access, refreshToken string) tokenstore.TokenResponse {
	return tokenstore.TokenResponse{
		AccessToken:  &access,
		RefreshToken: &refreshToken,
		TokenType:    "bearer",
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
