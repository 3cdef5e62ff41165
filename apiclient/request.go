package apiclient

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
)

// Request describes one outbound call. Body is JSON encoded unless it is
// already []byte or json.RawMessage; it is encoded once and reused for a replay.
type Request struct {
	Method  string // defaults to GET
	Path    string // relative to the base URL, may carry a query string
	Headers http.Header
	Body    any

	// SkipAuth sends the request without a bearer token and disables the
	// refresh-on-401 behaviour. Used by the auth endpoints themselves.
	SkipAuth bool

	// Refreshable, when set, decides whether a 401 means an expired token.
	// A 401 it declines is returned as a *RequestError without refreshing and
	// without logging out. For endpoints that also answer 401 to a wrong
	// password.
	Refreshable func(resp *Response) bool
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// refreshable reports whether resp is a 401 the refresh-and-replay contract
// applies to.
func (r Request) refreshable(resp *Response) bool {
	if r.SkipAuth || resp.StatusCode != http.StatusUnauthorized {
		return false
	}
	return r.Refreshable == nil || r.Refreshable(resp)
}

// UnlessDetail is a Refreshable that declines 401s whose error detail is
// detail, for example "Invalid credentials".
func UnlessDetail(detail string) func(resp *Response) bool {
	return func(resp *Response) bool {
		return newRequestError(resp).Detail() != detail
	}
}

func (r Request) validate() error {
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: path %q must start with /", apperrors.ErrInvalidRequest, r.Path)
	}
	return nil
}
