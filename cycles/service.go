// Package cycles tracks menstrual cycle start dates and asks the API for the
// next predicted start and fertile window.
package cycles

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/jrsteele09/alpha-client/apiclient"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const (
	Route        = "/cycles"
	RoutePredict = "/cycles/predict"

	// DateLayout is the wire format of every date in this package.
	DateLayout = "2006-01-02"

	DefaultLookback   = 6
	MinLookback       = 1
	MaxLookback       = 24
	DefaultCycleDays  = 28
	fertileDaysBefore = 14
	fertileWindowHalf = 2
)

type CycleIn struct {
	StartDate string  `json:"start_date" yaml:"start_date" validate:"required"`
	Notes     *string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type CycleOut struct {
	CycleIn `yaml:",inline"`

	ID     string `json:"id" yaml:"id"`
	UserID string `json:"user_id" yaml:"user_id"`
}

type Prediction struct {
	AverageCycleDays   int    `json:"average_cycle_days" yaml:"average_cycle_days"`
	PredictedNextStart string `json:"predicted_next_start" yaml:"predicted_next_start"`
	FertileWindowStart string `json:"fertile_window_start" yaml:"fertile_window_start"`
	FertileWindowEnd   string `json:"fertile_window_end" yaml:"fertile_window_end"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// Add records a cycle start date (YYYY-MM-DD).
func (s *Service) Add(ctx context.Context, in CycleIn) (*CycleOut, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := ParseDate(in.StartDate); err != nil {
		return nil, err
	}
	return apiclient.Post[CycleOut](ctx, s.api, Route, in)
}

func (s *Service) List(ctx context.Context) ([]CycleOut, error) {
	return apiclient.List[CycleOut](ctx, s.api, Route)
}

// Predict uses the last lookback cycles; 0 means DefaultLookback.
func (s *Service) Predict(ctx context.Context, lookback int) (*Prediction, error) {
	if lookback == 0 {
		lookback = DefaultLookback
	}
	if lookback < MinLookback || lookback > MaxLookback {
		return nil, fmt.Errorf("%w: lookback must be between %d and %d", apperrors.ErrInvalidRequest, MinLookback, MaxLookback)
	}
	return apiclient.Get[Prediction](ctx, s.api, RoutePredict+"?lookback="+strconv.Itoa(lookback))
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperrors.ErrInvalidRequest, s)
	}
	return t, nil
}

// Forecast averages the gaps between consecutive start dates, newest first,
// and projects the next start from the latest one. With fewer than two
// starts defaultDays is used; with none the projection starts from today.
func Forecast(starts []time.Time, defaultDays int, today time.Time) Prediction {
	sorted := append([]time.Time(nil), starts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	avg := defaultDays
	last := today
	if len(sorted) > 0 {
		last = sorted[0]
	}
	if len(sorted) >= 2 {
		total := 0.0
		for i := 0; i < len(sorted)-1; i++ {
			total += sorted[i].Sub(sorted[i+1]).Hours() / 24
		}
		avg = max(1, int(math.Round(total/float64(len(sorted)-1))))
	}

	next := last.AddDate(0, 0, avg)
	return Prediction{
		AverageCycleDays:   avg,
		PredictedNextStart: next.Format(DateLayout),
		FertileWindowStart: next.AddDate(0, 0, -(fertileDaysBefore + fertileWindowHalf)).Format(DateLayout),
		FertileWindowEnd:   next.AddDate(0, 0, -(fertileDaysBefore - fertileWindowHalf)).Format(DateLayout),
	}
}
