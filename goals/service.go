package goals

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const Route = "/goals"

const (
	CategoryFitness   = "fitness"
	CategorySleep     = "sleep"
	CategoryNutrition = "nutrition"
	CategoryMeds      = "meds"
)

type GoalIn struct {
	Category    string `json:"category" yaml:"category" validate:"required,oneof=fitness sleep nutrition meds"`
	TargetValue string `json:"target_value" yaml:"target_value" validate:"required"`
	Cadence     string `json:"cadence" yaml:"cadence" validate:"required"`
}

type GoalOut struct {
	GoalIn `yaml:",inline"`

	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Unrealistic reports targets the API rejects as unsafe.
func (g GoalIn) Unrealistic() bool {
	text := strings.ToLower(g.TargetValue)
	return strings.Contains(text, "immediately") || strings.Contains(text, "overnight")
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) Create(ctx context.Context, in GoalIn) (*GoalOut, error) {
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return apiclient.Post[GoalOut](ctx, s.api, Route, in)
}

func (s *Service) List(ctx context.Context) ([]GoalOut, error) {
	return apiclient.List[GoalOut](ctx, s.api, Route)
}
