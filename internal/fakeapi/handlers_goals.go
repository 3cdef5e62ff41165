package fakeapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jrsteele09/alpha-client/goals"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

func (s *Server) CreateGoalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in goals.GoalIn
		if !decodeJSON(w, r, &in) {
			return
		}
		if err := validation.Struct(in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if in.Unrealistic() {
			writeDetail(w, http.StatusBadRequest, "Goal appears unrealistic. Try a smaller, safer target.")
			return
		}
		userID := userIDFrom(r)
		out := goals.GoalOut{GoalIn: in, ID: uuid.New().String(), UserID: userID, CreatedAt: s.now().UTC()}
		writeJSON(w, http.StatusCreated, s.goals.add(userID, out))
	}
}

func (s *Server) ListGoalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.goals.list(userIDFrom(r), listLimit))
	}
}
