// Package vitals records blood pressure, heart rate, temperature, glucose and
// weight readings.
package vitals

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/alpha-client/apiclient"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const Route = "/vitals"

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) Create(ctx context.Context, in VitalIn) (*VitalOut, error) {
	if err := validateReading(in); err != nil {
		return nil, err
	}
	return apiclient.Post[VitalOut](ctx, s.api, Route, in)
}

// List returns the most recent readings first.
func (s *Service) List(ctx context.Context) ([]VitalOut, error) {
	return apiclient.List[VitalOut](ctx, s.api, Route)
}

// Update changes only the fields set in patch.
func (s *Service) Update(ctx context.Context, id string, patch VitalIn) (*VitalOut, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: vital id is required", apperrors.ErrInvalidRequest)
	}
	if err := validateReading(patch); err != nil {
		return nil, err
	}
	return apiclient.Put[VitalOut](ctx, s.api, itemPath(id), patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: vital id is required", apperrors.ErrInvalidRequest)
	}
	return apiclient.Delete(ctx, s.api, itemPath(id))
}

func validateReading(in VitalIn) error {
	if in.Empty() {
		return fmt.Errorf("%w: provide at least one vital field", apperrors.ErrInvalidRequest)
	}
	return validation.Struct(in)
}

func itemPath(id string) string {
	return Route + "/" + url.PathEscape(id)
}
