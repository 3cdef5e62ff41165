package consent

import (
	"context"
	"time"

	"github.com/jrsteele09/alpha-client/apiclient"
)

const Route = "/consent"

type ConsentIn struct {
	PrivacyAccepted bool  `json:"privacy_accepted" yaml:"privacy_accepted"`
	MarketingOptIn  *bool `json:"marketing_opt_in,omitempty" yaml:"marketing_opt_in,omitempty"`
}

// Consent is one recorded consent decision; the newest one is in force.
type Consent struct {
	ID              string    `json:"id" yaml:"id"`
	UserID          string    `json:"user_id" yaml:"user_id"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	PrivacyAccepted bool      `json:"privacy_accepted" yaml:"privacy_accepted"`
	MarketingOptIn  bool      `json:"marketing_opt_in" yaml:"marketing_opt_in"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// List returns the consent history, newest first.
func (s *Service) List(ctx context.Context) ([]Consent, error) {
	return apiclient.List[Consent](ctx, s.api, Route)
}

// Upsert records a new consent decision.
func (s *Service) Upsert(ctx context.Context, in ConsentIn) (*Consent, error) {
	return apiclient.Put[Consent](ctx, s.api, Route, in)
}
