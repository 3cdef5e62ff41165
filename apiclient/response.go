package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
)

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// NoContent is set for 204 responses; Body must not be parsed.
	NoContent bool
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode parses the JSON body into v.
func (r *Response) Decode(v any) error {
	if r.NoContent {
		return fmt.Errorf("%w: status %d has no content", apperrors.ErrDecode, r.StatusCode)
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("%w: empty body", apperrors.ErrDecode)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return apperrors.Join(apperrors.ErrDecode, err)
	}
	return nil
}
