package reports

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/alpha-client/apiclient"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
)

const RouteSummary = "/reports/summary"

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

type VitalsSummary struct {
	Total   int            `json:"total" yaml:"total"`
	BP      map[string]int `json:"bp" yaml:"bp"`
	HR      map[string]int `json:"hr" yaml:"hr"`
	Temp    map[string]int `json:"temp" yaml:"temp"`
	Glucose map[string]int `json:"glucose" yaml:"glucose"`
}

type SymptomSummary struct {
	Total      int            `json:"total" yaml:"total"`
	BySeverity map[string]int `json:"by_severity" yaml:"by_severity"`
}

// Summary aggregates a period's vitals flags and symptom severities. Markdown
// is a ready to print rendering of the same figures.
type Summary struct {
	Period         string         `json:"period" yaml:"period"`
	VitalsSummary  VitalsSummary  `json:"vitals_summary" yaml:"vitals_summary"`
	SymptomSummary SymptomSummary `json:"symptom_summary" yaml:"symptom_summary"`
	Markdown       string         `json:"markdown" yaml:"markdown"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// Summary fetches the report for period; "" means PeriodWeek.
func (s *Service) Summary(ctx context.Context, period string) (*Summary, error) {
	if period == "" {
		period = PeriodWeek
	}
	if period != PeriodWeek && period != PeriodMonth {
		return nil, fmt.Errorf("%w: period must be %q or %q", apperrors.ErrInvalidRequest, PeriodWeek, PeriodMonth)
	}
	q := url.Values{"period": {period}}
	return apiclient.Get[Summary](ctx, s.api, RouteSummary+"?"+q.Encode())
}
