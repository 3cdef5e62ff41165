package fakeapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jrsteele09/alpha-client/account"
	"github.com/jrsteele09/alpha-client/consent"
	"github.com/jrsteele09/alpha-client/internal/validation"
	"github.com/jrsteele09/alpha-client/profiles"
)

const (
	consentListLimit = 20
	exportLimit      = 500
)

func (s *Server) ListConsentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.consents.list(userIDFrom(r), consentListLimit))
	}
}

// UpsertConsentHandler records a new decision; history is kept.
func (s *Server) UpsertConsentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in consent.ConsentIn
		if !decodeJSON(w, r, &in) {
			return
		}
		userID := userIDFrom(r)
		out := consent.Consent{
			ID:              uuid.New().String(),
			UserID:          userID,
			CreatedAt:       s.now().UTC(),
			PrivacyAccepted: in.PrivacyAccepted,
			MarketingOptIn:  in.MarketingOptIn != nil && *in.MarketingOptIn,
		}
		writeJSON(w, http.StatusCreated, s.consents.add(userID, out))
	}
}

// GetProfileHandler creates an empty profile on first access.
func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.profileFor(userIDFrom(r)))
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in profiles.ProfileIn
		if !decodeJSON(w, r, &in) {
			return
		}
		if err := validation.Struct(in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		userID := userIDFrom(r)
		s.profileFor(userID)
		now := s.now().UTC()
		out, _ := s.profiles.update(userID, userID, func(p *profiles.Profile) {
			p.ProfileIn = in
			p.UpdatedAt = &now
		})
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) profileFor(userID string) profiles.Profile {
	if p, ok := s.profiles.find(userID, userID); ok {
		return p
	}
	now := s.now().UTC()
	return s.profiles.add(userID, profiles.Profile{
		ProfileIn: profiles.ProfileIn{Allergies: []string{}, Conditions: []string{}, Medications: []string{}, Surgeries: []string{}},
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: &now,
		UpdatedAt: &now,
	})
}

type accountExport struct {
	User     any   `json:"user"`
	Profile  any   `json:"profile"`
	Vitals   []any `json:"vitals"`
	Symptoms []any `json:"symptoms"`
	Goals    []any `json:"goals"`
}

func (s *Server) ExportAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFrom(r)
		user, err := s.users.GetByID(userID)
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		doc := accountExport{User: user, Vitals: []any{}, Symptoms: []any{}, Goals: []any{}}
		if p, ok := s.profiles.find(userID, userID); ok {
			doc.Profile = p
		}
		for _, v := range s.vitals.list(userID, exportLimit) {
			doc.Vitals = append(doc.Vitals, v)
		}
		for _, sym := range s.symptoms.list(userID, exportLimit) {
			doc.Symptoms = append(doc.Symptoms, sym)
		}
		for _, g := range s.goals.list(userID, exportLimit) {
			doc.Goals = append(doc.Goals, g)
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

// DeleteAccountHandler answers 401 to a wrong password, like the login route.
func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.DeleteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Password == "" {
			writeDetail(w, http.StatusBadRequest, "Password required")
			return
		}

		userID := userIDFrom(r)
		user, err := s.users.GetByID(userID)
		if err != nil || user.CheckPassword(req.Password) != nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		s.deleteUserData(userID)
		_ = s.users.Delete(userID)
		w.WriteHeader(http.StatusNoContent)
	}
}
