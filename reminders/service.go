// Package reminders schedules reminder messages, previews upcoming delivery
// times and registers Web Push subscriptions for delivery.
package reminders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/alpha-client/apiclient"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const (
	Route              = "/reminders"
	RoutePreview       = "/reminders/preview"
	RouteSubscriptions = "/reminders/subscriptions"
)

const (
	RecurrenceNone   = ""
	RecurrenceDaily  = "daily"
	RecurrenceWeekly = "weekly"
)

type ReminderIn struct {
	Message     string    `json:"message" yaml:"message" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" yaml:"scheduled_at" validate:"required"`
	Recurrence  string    `json:"recurrence,omitempty" yaml:"recurrence,omitempty" validate:"omitempty,oneof=daily weekly"`
}

type ReminderOut struct {
	ReminderIn `yaml:",inline"`

	ID        string     `json:"id" yaml:"id"`
	UserID    string     `json:"user_id" yaml:"user_id"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty" yaml:"sent_at,omitempty"`
}

// Preview lists the next delivery times.
type Preview struct {
	Times []time.Time `json:"times" yaml:"times"`
}

// PushSubscription is a browser push endpoint and its encryption keys.
type PushSubscription struct {
	Endpoint string            `json:"endpoint" yaml:"endpoint" validate:"required,url"`
	Keys     map[string]string `json:"keys" yaml:"keys" validate:"required"`
}

// Status is the acknowledgement returned by send and subscribe.
type Status struct {
	Status string `json:"status" yaml:"status"`
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context) ([]ReminderOut, error) {
	return apiclient.List[ReminderOut](ctx, s.api, Route)
}

func (s *Service) Schedule(ctx context.Context, in ReminderIn) (*ReminderOut, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return apiclient.Post[ReminderOut](ctx, s.api, Route, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: reminder id is required", apperrors.ErrInvalidRequest)
	}
	return apiclient.Delete(ctx, s.api, Route+"/"+url.PathEscape(id))
}

// SendNow delivers a reminder immediately instead of waiting for its schedule.
func (s *Service) SendNow(ctx context.Context, id string) (*Status, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: reminder id is required", apperrors.ErrInvalidRequest)
	}
	return apiclient.Post[Status](ctx, s.api, Route+"/"+url.PathEscape(id)+"/send", nil)
}

func (s *Service) Preview(ctx context.Context) (*Preview, error) {
	return apiclient.Get[Preview](ctx, s.api, RoutePreview)
}

func (s *Service) RegisterPushSubscription(ctx context.Context, sub PushSubscription) (*Status, error) {
	if err := validation.Struct(sub); err != nil {
		return nil, err
	}
	return apiclient.Call[Status](ctx, s.api, http.MethodPost, RouteSubscriptions, sub)
}
