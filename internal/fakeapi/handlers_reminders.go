package fakeapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jrsteele09/alpha-client/internal/validation"
	"github.com/jrsteele09/alpha-client/reminders"
)

const previewCount = 3

func (s *Server) ListRemindersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.reminders.list(userIDFrom(r), listLimit))
	}
}

func (s *Server) ScheduleReminderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in reminders.ReminderIn
		if !decodeJSON(w, r, &in) {
			return
		}
		if err := validation.Struct(in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		userID := userIDFrom(r)
		out := reminders.ReminderOut{
			ReminderIn: in,
			ID:         uuid.New().String(),
			UserID:     userID,
			CreatedAt:  s.now().UTC(),
		}
		writeJSON(w, http.StatusCreated, s.reminders.add(userID, out))
	}
}

func (s *Server) DeleteReminderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.reminders.remove(userIDFrom(r), r.PathValue("id")) {
			writeDetail(w, http.StatusNotFound, "Reminder not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SendReminderHandler marks the reminder delivered; there is no push gateway.
func (s *Server) SendReminderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := s.now().UTC()
		_, ok := s.reminders.update(userIDFrom(r), r.PathValue("id"), func(rem *reminders.ReminderOut) {
			rem.SentAt = &now
		})
		if !ok {
			writeDetail(w, http.StatusNotFound, "Reminder not found")
			return
		}
		writeJSON(w, http.StatusOK, reminders.Status{Status: "sent"})
	}
}

// PreviewRemindersHandler lists the next delivery times of a daily cadence.
func (s *Server) PreviewRemindersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := s.now().UTC()
		times := make([]time.Time, 0, previewCount)
		for i := 1; i <= previewCount; i++ {
			times = append(times, now.AddDate(0, 0, i))
		}
		writeJSON(w, http.StatusOK, reminders.Preview{Times: times})
	}
}

func (s *Server) SubscribeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub reminders.PushSubscription
		if !decodeJSON(w, r, &sub) {
			return
		}
		if err := validation.Struct(sub); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		userID := userIDFrom(r)
		status := "created"
		if _, ok := s.pushSubs.update(userID, sub.Endpoint, func(existing *reminders.PushSubscription) {
			existing.Keys = sub.Keys
		}); ok {
			status = "updated"
		} else {
			s.pushSubs.add(userID, sub)
		}
		writeJSON(w, http.StatusCreated, reminders.Status{Status: status})
	}
}
