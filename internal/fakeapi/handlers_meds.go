package fakeapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/jrsteele09/alpha-client/internal/validation"
	"github.com/jrsteele09/alpha-client/meds"
)

const medDisclaimer = "Educational information only. Always read the label and ask a pharmacist or doctor."

// leaflets is the built-in medication catalogue.
var leaflets = map[string]meds.MedOut{
	"ibuprofen": {
		Purpose:           "Relieves pain, fever and inflammation.",
		CommonSideEffects: []string{"stomach upset", "heartburn", "nausea"},
		Interactions:      []string{"blood thinners", "other NSAIDs", "some blood pressure medicines"},
		Usage:             "Take with food.",
	},
	"paracetamol": {
		Purpose:           "Relieves mild to moderate pain and reduces fever.",
		CommonSideEffects: []string{"rare at usual doses"},
		Interactions:      []string{"other products containing paracetamol", "warfarin"},
		Usage:             "Do not combine with other paracetamol products.",
	},
	"metformin": {
		Purpose:           "Lowers blood sugar in type 2 diabetes.",
		CommonSideEffects: []string{"diarrhoea", "nausea", "metallic taste"},
		Interactions:      []string{"alcohol", "contrast dyes"},
		Usage:             "Usually taken with meals.",
	},
}

func (s *Server) DecodeMedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in meds.MedIn
		if !decodeJSON(w, r, &in) {
			return
		}
		in.Name = strings.TrimSpace(in.Name)
		if err := validation.Struct(in); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, decodeMed(in))
	}
}

func decodeMed(in meds.MedIn) meds.MedOut {
	out, ok := leaflets[strings.ToLower(in.Name)]
	if !ok {
		out = meds.MedOut{
			Purpose:           "No leaflet is available for " + in.Name + ".",
			CommonSideEffects: []string{},
			Interactions:      []string{},
			Usage:             "Follow the product label and pharmacist guidance.",
		}
	}
	out.CommonSideEffects = slices.Clone(out.CommonSideEffects)
	out.Interactions = slices.Clone(out.Interactions)

	if in.UserContext != nil {
		for _, allergy := range in.UserContext.Allergies {
			if strings.EqualFold(strings.TrimSpace(allergy), in.Name) {
				out.Interactions = append(out.Interactions, "listed in your allergies: do not take")
			}
		}
	}
	out.Usage = meds.UsageGuard + out.Usage
	out.Disclaimer = medDisclaimer
	return out
}
