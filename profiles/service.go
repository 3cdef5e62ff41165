package profiles

import (
	"context"
	"time"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const RouteMe = "/profiles/me"

// ProfileIn replaces the whole profile; unset fields are cleared.
type ProfileIn struct {
	Age                   *int     `json:"age,omitempty" yaml:"age,omitempty" validate:"omitempty,min=0,max=130"`
	Sex                   *string  `json:"sex,omitempty" yaml:"sex,omitempty"`
	HeightCm              *float64 `json:"height_cm,omitempty" yaml:"height_cm,omitempty" validate:"omitempty,gt=0"`
	WeightKg              *float64 `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty" validate:"omitempty,gt=0"`
	Allergies             []string `json:"allergies" yaml:"allergies"`
	Conditions            []string `json:"conditions" yaml:"conditions"`
	SleepPref             *string  `json:"sleep_pref,omitempty" yaml:"sleep_pref,omitempty"`
	BloodType             *string  `json:"blood_type,omitempty" yaml:"blood_type,omitempty"`
	ActivityLevel         *string  `json:"activity_level,omitempty" yaml:"activity_level,omitempty"`
	SmokingStatus         *string  `json:"smoking_status,omitempty" yaml:"smoking_status,omitempty"`
	AlcoholUse            *string  `json:"alcohol_use,omitempty" yaml:"alcohol_use,omitempty"`
	Medications           []string `json:"medications" yaml:"medications"`
	Surgeries             []string `json:"surgeries" yaml:"surgeries"`
	FamilyHistory         *string  `json:"family_history,omitempty" yaml:"family_history,omitempty"`
	EmergencyContactName  *string  `json:"emergency_contact_name,omitempty" yaml:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone,omitempty" yaml:"emergency_contact_phone,omitempty"`
	PreferredUnits        *string  `json:"preferred_units,omitempty" yaml:"preferred_units,omitempty"`
}

type Profile struct {
	ProfileIn `yaml:",inline"`

	ID        string     `json:"id" yaml:"id"`
	UserID    string     `json:"user_id" yaml:"user_id"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// Get returns the caller's profile; the API creates an empty one on first use.
func (s *Service) Get(ctx context.Context) (*Profile, error) {
	return apiclient.Get[Profile](ctx, s.api, RouteMe)
}

func (s *Service) Update(ctx context.Context, in ProfileIn) (*Profile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return apiclient.Put[Profile](ctx, s.api, RouteMe, in)
}
