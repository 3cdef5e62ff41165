package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/alpha-client/reports"
	"github.com/jrsteele09/alpha-client/vitals"
)

func (s *Server) ReportSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			period = reports.PeriodWeek
		}
		days := 7
		switch period {
		case reports.PeriodWeek:
		case reports.PeriodMonth:
			days = 30
		default:
			writeDetail(w, http.StatusUnprocessableEntity, "period must be week or month")
			return
		}

		userID := userIDFrom(r)
		start := s.now().UTC().AddDate(0, 0, -days)
		writeJSON(w, http.StatusOK, s.summarise(userID, period, start))
	}
}

func (s *Server) summarise(userID, period string, start time.Time) reports.Summary {
	vs := reports.VitalsSummary{
		BP:      zeroCounts(vitals.BPFlags),
		HR:      zeroCounts(vitals.HRFlags),
		Temp:    zeroCounts(vitals.TempFlags),
		Glucose: zeroCounts(vitals.GlucoseFlags),
	}
	for _, v := range s.vitals.list(userID, 0) {
		if v.CreatedAt.Before(start) {
			continue
		}
		vs.Total++
		count(vs.BP, v.BPFlag)
		count(vs.HR, v.HRFlag)
		count(vs.Temp, v.TempFlag)
		count(vs.Glucose, v.GlucoseFlag)
	}

	ss := reports.SymptomSummary{BySeverity: map[string]int{}}
	for _, sym := range s.symptoms.list(userID, 0) {
		if sym.CreatedAt.Before(start) {
			continue
		}
		ss.Total++
		sev := strings.ToLower(strings.TrimSpace(sym.Severity))
		if sev == "" {
			sev = "unspecified"
		}
		ss.BySeverity[sev]++
	}

	return reports.Summary{
		Period:         period,
		VitalsSummary:  vs,
		SymptomSummary: ss,
		Markdown:       summaryMarkdown(period, vs, ss),
	}
}

func zeroCounts(keys []string) map[string]int {
	m := make(map[string]int, len(keys))
	for _, k := range keys {
		m[k] = 0
	}
	return m
}

func count(m map[string]int, flag *string) {
	if flag != nil {
		m[*flag]++
	}
}

func summaryMarkdown(period string, vs reports.VitalsSummary, ss reports.SymptomSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# ALPHA Summary (%s)\n\n", period)
	b.WriteString("## Vitals\n")
	fmt.Fprintf(&b, "Total entries: %d\n", vs.Total)
	fmt.Fprintf(&b, "BP flags: normal %d, elevated %d, stage1 %d, stage2 %d, crisis %d\n",
		vs.BP[vitals.BPNormal], vs.BP[vitals.BPElevated], vs.BP[vitals.BPHypertensionStage1],
		vs.BP[vitals.BPHypertensionStage2], vs.BP[vitals.BPHypertensiveCrisis])
	fmt.Fprintf(&b, "HR flags: normal %d, brady %d/%d, tachy %d/%d\n",
		vs.HR[vitals.HRNormal], vs.HR[vitals.HRBradycardia], vs.HR[vitals.HRBradycardiaSevere],
		vs.HR[vitals.HRTachycardia], vs.HR[vitals.HRTachycardiaSevere])
	fmt.Fprintf(&b, "Temp flags: normal %d, fever %d, fever-high %d, hypothermia %d\n",
		vs.Temp[vitals.TempNormal], vs.Temp[vitals.TempFever], vs.Temp[vitals.TempFeverHigh], vs.Temp[vitals.TempHypothermia])
	fmt.Fprintf(&b, "Glucose flags: normal %d, hypo %d, hyper %d\n\n",
		vs.Glucose[vitals.GlucoseNormal], vs.Glucose[vitals.GlucoseHypoglycemia], vs.Glucose[vitals.GlucoseHyperglycemia])

	b.WriteString("## Symptoms\n")
	fmt.Fprintf(&b, "Total reports: %d\n", ss.Total)
	if len(ss.BySeverity) == 0 {
		b.WriteString("By severity: none\n")
	} else {
		keys := make([]string, 0, len(ss.BySeverity))
		for k := range ss.BySeverity {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %d", k, ss.BySeverity[k]))
		}
		fmt.Fprintf(&b, "By severity: %s\n", strings.Join(parts, ", "))
	}
	b.WriteString("\nNote: This summary is informational and non-clinical. For medical concerns, consult a professional.")
	return b.String()
}
