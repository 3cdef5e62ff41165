package meds

import (
	"context"
	"strings"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const RouteDecoder = "/meds/decoder"

// UsageGuard prefixes every usage text returned by the decoder.
const UsageGuard = "No dosing advice beyond official label. For questions, consult a qualified professional. "

type UserContext struct {
	Age       *int     `json:"age,omitempty" yaml:"age,omitempty"`
	Sex       *string  `json:"sex,omitempty" yaml:"sex,omitempty"`
	Allergies []string `json:"allergies,omitempty" yaml:"allergies,omitempty"`
}

type MedIn struct {
	Name        string       `json:"name" yaml:"name" validate:"required,max=200"`
	UserContext *UserContext `json:"user_context,omitempty" yaml:"user_context,omitempty"`
}

// MedOut is plain-language information about a medication. It is not
// dosing advice.
type MedOut struct {
	Purpose           string   `json:"purpose" yaml:"purpose"`
	CommonSideEffects []string `json:"common_side_effects" yaml:"common_side_effects"`
	Interactions      []string `json:"interactions" yaml:"interactions"`
	Usage             string   `json:"usage" yaml:"usage"`
	Disclaimer        string   `json:"disclaimer" yaml:"disclaimer"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) Decode(ctx context.Context, in MedIn) (*MedOut, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return apiclient.Post[MedOut](ctx, s.api, RouteDecoder, in)
}
