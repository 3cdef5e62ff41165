package fakeapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jrsteele09/alpha-client/internal/validation"
	"github.com/jrsteele09/alpha-client/vitals"
)

const listLimit = 200

func (s *Server) CreateVitalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in vitals.VitalIn
		if !decodeJSON(w, r, &in) {
			return
		}
		if in.Empty() {
			writeDetail(w, http.StatusBadRequest, "Provide at least one vital field")
			return
		}
		if err := validation.Struct(in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		userID := userIDFrom(r)
		out := vitals.VitalOut{
			VitalIn:   in,
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: s.now().UTC(),
		}
		vitals.Classify(&out)
		writeJSON(w, http.StatusCreated, s.vitals.add(userID, out))
	}
}

func (s *Server) ListVitalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.vitals.list(userIDFrom(r), listLimit))
	}
}

// UpdateVitalHandler applies only the fields present in the body.
func (s *Server) UpdateVitalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch vitals.VitalIn
		if !decodeJSON(w, r, &patch) {
			return
		}
		out, ok := s.vitals.update(userIDFrom(r), r.PathValue("id"), func(v *vitals.VitalOut) {
			v.VitalIn = v.VitalIn.Merge(patch)
			vitals.Classify(v)
		})
		if !ok {
			writeDetail(w, http.StatusNotFound, "Vital not found")
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) DeleteVitalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.vitals.remove(userIDFrom(r), r.PathValue("id")) {
			writeDetail(w, http.StatusNotFound, "Vital not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
