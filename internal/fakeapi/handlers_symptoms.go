package fakeapi

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jrsteele09/alpha-client/internal/validation"
	"github.com/jrsteele09/alpha-client/symptoms"
)

const (
	symptomListLimit  = 50
	symptomDisclaimer = "This is general information, not a diagnosis. Contact a health professional if you are worried."
)

// redFlags maps phrases to the risk flag they raise.
var redFlags = map[string]string{
	"chest pain":             "possible cardiac event",
	"shortness of breath":    "breathing difficulty",
	"difficulty breathing":   "breathing difficulty",
	"fainting":               "loss of consciousness",
	"numbness":               "possible neurological event",
	"slurred speech":         "possible neurological event",
	"blood":                  "bleeding",
	"high fever":             "high fever",
	"severe headache":        "severe headache",
	"suicidal":               "mental health crisis",
	"confusion":              "altered mental state",
	"swelling of the throat": "possible anaphylaxis",
}

func (s *Server) CreateSymptomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeSymptom(w, r)
		if !ok {
			return
		}
		userID := userIDFrom(r)
		out := symptoms.SymptomOut{
			ID:          uuid.New().String(),
			UserID:      userID,
			CreatedAt:   s.now().UTC(),
			Description: in.Description,
			Severity:    in.Severity,
		}
		writeJSON(w, http.StatusCreated, s.symptoms.add(userID, out))
	}
}

func (s *Server) ListSymptomsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.symptoms.list(userIDFrom(r), symptomListLimit))
	}
}

func (s *Server) AnalyzeSymptomHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeSymptom(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, analyzeSymptom(in))
	}
}

func decodeSymptom(w http.ResponseWriter, r *http.Request) (symptoms.SymptomIn, bool) {
	var in symptoms.SymptomIn
	if !decodeJSON(w, r, &in) {
		return in, false
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		writeDetail(w, http.StatusBadRequest, "Description is required")
		return in, false
	}
	if err := validation.Struct(in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return in, false
	}
	return in, true
}

func analyzeSymptom(in symptoms.SymptomIn) symptoms.Analysis {
	text := strings.ToLower(in.Description)
	out := symptoms.Analysis{
		Advice:       []string{"Rest, stay hydrated and track how the symptom changes."},
		RiskFlags:    []string{},
		Causes:       []string{"Many everyday causes are possible, such as stress, poor sleep or a minor infection."},
		Implications: []string{},
		Disclaimer:   symptomDisclaimer,
	}

	seen := map[string]bool{}
	for phrase, flag := range redFlags {
		if strings.Contains(text, phrase) && !seen[flag] {
			seen[flag] = true
			out.RiskFlags = append(out.RiskFlags, flag)
		}
	}

	switch {
	case len(out.RiskFlags) > 0:
		out.Advice = append(out.Advice, "Seek urgent medical care now.")
		out.Implications = append(out.Implications, "Some of what you describe can be serious and should be assessed promptly.")
	case in.Severity == symptoms.SeveritySevere:
		out.Advice = append(out.Advice, "Contact a doctor today.")
		out.Implications = append(out.Implications, "Severe symptoms should be assessed by a professional.")
	case in.Severity == symptoms.SeverityModerate:
		out.Advice = append(out.Advice, "Book an appointment if it lasts more than a few days.")
	default:
		out.Advice = append(out.Advice, "Self-care is usually enough; check again if it gets worse.")
	}
	return out
}
