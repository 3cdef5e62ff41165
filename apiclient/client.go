// Package apiclient wraps every outbound call to the ALPHA REST API.
//
// A Client injects the bearer token held by the session, executes the request
// and, when the server answers 401, performs at most one silent refresh before
// replaying the request once. When the refresh cannot be completed the session
// is cleared and the user is sent back to the login route.
//
// Failures surface as:
//   - ErrUnauthenticated (internal/errors) once the refresh is exhausted,
//   - *RequestError for any other non-2xx status, carrying the server message,
//   - ErrTransport wrapping network failures of the original request, or a
//     refresh cut short by the caller's context (the session is kept).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/tokenstore"
)

const (
	defaultRefreshPath = "/auth/refresh"
	headerRequestID    = "X-Request-ID"
	contentTypeJSON    = "application/json"
)

// SessionHolder is the in-memory owner of the access token. The client reads
// it for every attempt and writes back through SetToken after a refresh.
type SessionHolder interface {
	Token() string
	SetToken(token string)
}

// CredentialsHolder is a SessionHolder that persists a refreshed credential
// pair in one write. It must wrap the client's token store.
type CredentialsHolder interface {
	SessionHolder
	SetCredentials(creds tokenstore.Credentials)
}

// Redirector sends the user to the login entry point. Implementations must be
// a no-op when already there.
type Redirector interface {
	RedirectToLogin()
}

// Doer executes a Request. *Client implements it; resource services depend on
// this interface.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Client is safe for concurrent use. It owns no session state.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	session     SessionHolder
	store       tokenstore.Store
	redirector  Redirector
	refreshPath string
	userAgent   string

	coalesce bool
	inflight singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSession injects the session the client reads tokens from and writes
// refreshed tokens to.
func WithSession(s SessionHolder) Option {
	return func(c *Client) { c.session = s }
}

// WithTokenStore sets the durable store holding the refresh token.
func WithTokenStore(s tokenstore.Store) Option {
	return func(c *Client) { c.store = s }
}

func WithRedirector(r Redirector) Option {
	return func(c *Client) { c.redirector = r }
}

func WithRefreshPath(path string) Option {
	return func(c *Client) { c.refreshPath = path }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRefreshCoalescing makes concurrent 401s share a single in-flight refresh
// call instead of each performing its own.
func WithRefreshCoalescing() Option {
	return func(c *Client) { c.coalesce = true }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		refreshPath: defaultRefreshPath,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.session == nil {
		c.session = &memorySession{}
	}
	if c.store == nil {
		c.store = nopStore{}
	}
	if c.redirector == nil {
		c.redirector = nopRedirector{}
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues req following the refresh-and-replay contract described in the
// package documentation.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	token := ""
	if !req.SkipAuth {
		token = c.session.Token()
	}

	resp, err := c.send(ctx, req, payload, token)
	if err != nil {
		return nil, err
	}

	if req.refreshable(resp) {
		newToken, err := c.refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: refresh interrupted: %w", apperrors.ErrTransport, ctx.Err())
			}
			c.forceLogout(err)
			return nil, apperrors.ErrUnauthenticated
		}

		resp, err = c.send(ctx, req, payload, newToken)
		if err != nil {
			return nil, err
		}
		if req.refreshable(resp) {
			c.forceLogout(fmt.Errorf("replay of %s %s rejected", req.method(), req.Path))
			return nil, apperrors.ErrUnauthenticated
		}
	}

	if !resp.OK() {
		return nil, newRequestError(resp)
	}
	return resp, nil
}

// send performs a single HTTP exchange and buffers the response body.
func (c *Client) send(ctx context.Context, req Request, payload []byte, token string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method(), c.baseURL+req.Path, body)
	if err != nil {
		return nil, apperrors.Join(apperrors.ErrInvalidRequest, err)
	}

	for k, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", contentTypeJSON)
	httpReq.Header.Set("Accept", contentTypeJSON)
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("method", req.method()).Str("path", req.Path).Str("request_id", requestID).Msg("request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", apperrors.ErrTransport, req.method(), req.Path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %w", apperrors.ErrTransport, req.method(), req.Path, err)
	}

	log.Debug().
		Str("method", req.method()).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("api request")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       data,
		NoContent:  httpResp.StatusCode == http.StatusNoContent,
	}, nil
}

// Refresh performs an explicit refresh with the same contract as the silent
// one: on failure the session is cleared, the user is redirected to login and
// ErrUnauthenticated is returned.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	token, err := c.refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: refresh interrupted: %w", apperrors.ErrTransport, ctx.Err())
		}
		c.forceLogout(err)
		return "", apperrors.ErrUnauthenticated
	}
	return token, nil
}

// refresh obtains a new access token, sharing the call between concurrent
// callers when coalescing is enabled. A shared call is detached from the
// first caller's cancellation; each caller still stops waiting on its own.
func (c *Client) refresh(ctx context.Context) (string, error) {
	if !c.coalesce {
		return c.refreshOnce(ctx)
	}
	ch := c.inflight.DoChan("refresh", func() (any, error) {
		return c.refreshOnce(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		log.Debug().Bool("shared", res.Shared).Msg("coalesced token refresh")
		return res.Val.(string), nil
	}
}

func (c *Client) refreshOnce(ctx context.Context) (string, error) {
	creds := c.store.Load()
	if creds.RefreshToken == nil || *creds.RefreshToken == "" {
		return "", apperrors.ErrNoRefreshToken
	}

	payload, err := encodeBody(map[string]string{tokenstore.KeyRefreshToken: *creds.RefreshToken})
	if err != nil {
		return "", err
	}

	resp, err := c.send(ctx, Request{Method: http.MethodPost, Path: c.refreshPath, SkipAuth: true}, payload, "")
	if err != nil {
		return "", apperrors.Join(apperrors.ErrRefreshFailed, err)
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: status %d", apperrors.ErrRefreshFailed, resp.StatusCode)
	}

	var tr tokenstore.TokenResponse
	if err := resp.Decode(&tr); err != nil {
		return "", apperrors.Join(apperrors.ErrRefreshFailed, err)
	}
	refreshed, ok := tr.Credentials()
	if !ok {
		return "", apperrors.Join(apperrors.ErrRefreshFailed, apperrors.ErrMissingAccessToken)
	}

	c.persist(refreshed)
	log.Info().Bool("rotated", refreshed.RefreshToken != nil).Msg("access token refreshed")

	return refreshed.AccessToken, nil
}

// persist records refreshed credentials with a single store write.
func (c *Client) persist(creds tokenstore.Credentials) {
	if h, ok := c.session.(CredentialsHolder); ok {
		h.SetCredentials(creds)
		return
	}
	c.store.Save(creds.AccessToken, creds.RefreshToken)
	c.session.SetToken(creds.AccessToken)
}

// forceLogout clears every copy of the session and redirects to login.
func (c *Client) forceLogout(reason error) {
	log.Warn().Err(reason).Msg("session could not be renewed, logging out")
	c.store.Clear()
	c.session.SetToken("")
	c.redirector.RedirectToLogin()
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Join(apperrors.ErrInvalidRequest, err)
	}
	return data, nil
}
