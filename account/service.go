// Package account exports the caller's data and deletes the account.
package account

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/alpha-client/apiclient"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/validation"
)

const (
	RouteExport = "/account/export"
	RouteDelete = "/account/delete"

	// detailWrongPassword is the 401 detail the API gives a wrong password,
	// as opposed to an expired token.
	detailWrongPassword = "Invalid credentials"
)

type DeleteRequest struct {
	Password string `json:"password" validate:"required"`
}

// Clearer drops the local session once the account is gone.
type Clearer interface {
	Clear()
}

type Service struct {
	api     apiclient.Doer
	session Clearer
}

func NewService(api apiclient.Doer, session Clearer) *Service {
	return &Service{api: api, session: session}
}

// Export returns the account document (user, profile, vitals, symptoms,
// goals) exactly as served.
func (s *Service) Export(ctx context.Context) (json.RawMessage, error) {
	resp, err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: RouteExport})
	if err != nil {
		return nil, err
	}
	var doc json.RawMessage
	if err := resp.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete permanently removes the account after confirming the password. A
// wrong password is ErrInvalidCredentials and leaves the session intact; an
// expired token is refreshed like on any other call. On success the local
// session is cleared.
func (s *Service) Delete(ctx context.Context, password string) error {
	req := DeleteRequest{Password: password}
	if err := validation.Struct(req); err != nil {
		return err
	}

	_, err := s.api.Do(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Path:        RouteDelete,
		Body:        req,
		Refreshable: apiclient.UnlessDetail(detailWrongPassword),
	})
	if err != nil {
		var reqErr *apiclient.RequestError
		if apperrors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
			return apperrors.Join(apperrors.ErrInvalidCredentials, err)
		}
		return err
	}

	s.session.Clear()
	return nil
}
