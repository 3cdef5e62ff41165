package fakeapi

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jrsteele09/alpha-client/cycles"
)

const (
	minCycleDays = 20
	maxCycleDays = 40
)

func (s *Server) AddCycleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in cycles.CycleIn
		if !decodeJSON(w, r, &in) {
			return
		}
		if _, err := cycles.ParseDate(in.StartDate); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		userID := userIDFrom(r)
		out := cycles.CycleOut{CycleIn: in, ID: uuid.New().String(), UserID: userID}
		writeJSON(w, http.StatusCreated, s.cycles.add(userID, out))
	}
}

// ListCyclesHandler returns the latest starts first.
func (s *Server) ListCyclesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.latestCycles(userIDFrom(r), cycles.MaxLookback))
	}
}

func (s *Server) PredictCycleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lookback, ok := queryInt(w, r, "lookback", cycles.DefaultLookback, cycles.MinLookback, cycles.MaxLookback)
		if !ok {
			return
		}
		defaultDays, ok := queryInt(w, r, "default_cycle_days", cycles.DefaultCycleDays, minCycleDays, maxCycleDays)
		if !ok {
			return
		}

		entries := s.latestCycles(userIDFrom(r), lookback)
		starts := make([]time.Time, 0, len(entries))
		for _, c := range entries {
			if t, err := cycles.ParseDate(c.StartDate); err == nil {
				starts = append(starts, t)
			}
		}
		today := s.now().UTC().Truncate(24 * time.Hour)
		writeJSON(w, http.StatusOK, cycles.Forecast(starts, defaultDays, today))
	}
}

func (s *Server) latestCycles(userID string, limit int) []cycles.CycleOut {
	all := s.cycles.list(userID, 0)
	sortByStartDesc(all)
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

func sortByStartDesc(items []cycles.CycleOut) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].StartDate > items[j].StartDate })
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		writeDetail(w, http.StatusUnprocessableEntity, name+" must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
		return 0, false
	}
	return n, true
}
