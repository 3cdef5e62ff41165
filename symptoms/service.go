package symptoms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const (
	Route        = "/symptoms"
	RouteAnalyze = "/symptoms/analyze"
)

const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

type SymptomIn struct {
	Description string `json:"description" yaml:"description" validate:"required"`
	Severity    string `json:"severity,omitempty" yaml:"severity,omitempty" validate:"omitempty,oneof=mild moderate severe"`
}

type SymptomOut struct {
	ID          string    `json:"id" yaml:"id"`
	UserID      string    `json:"user_id" yaml:"user_id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Description string    `json:"description" yaml:"description"`
	Severity    string    `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// Analysis is informational guidance for a described symptom.
type Analysis struct {
	Advice       []string `json:"advice" yaml:"advice"`
	RiskFlags    []string `json:"risk_flags" yaml:"risk_flags"`
	Causes       []string `json:"causes" yaml:"causes"`
	Implications []string `json:"implications" yaml:"implications"`
	Disclaimer   string   `json:"disclaimer" yaml:"disclaimer"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) Create(ctx context.Context, in SymptomIn) (*SymptomOut, error) {
	in, err := normalise(in)
	if err != nil {
		return nil, err
	}
	return apiclient.Post[SymptomOut](ctx, s.api, Route, in)
}

func (s *Service) List(ctx context.Context) ([]SymptomOut, error) {
	return apiclient.List[SymptomOut](ctx, s.api, Route)
}

// Analyze asks the API for guidance on a symptom without recording it.
func (s *Service) Analyze(ctx context.Context, in SymptomIn) (*Analysis, error) {
	in, err := normalise(in)
	if err != nil {
		return nil, err
	}
	return apiclient.Post[Analysis](ctx, s.api, RouteAnalyze, in)
}

func normalise(in SymptomIn) (SymptomIn, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Severity = strings.ToLower(strings.TrimSpace(in.Severity))
	if err := validation.Struct(in); err != nil {
		return in, fmt.Errorf("symptom: %w", err)
	}
	return in, nil
}
