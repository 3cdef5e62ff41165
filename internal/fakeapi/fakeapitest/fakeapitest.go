// Package fakeapitest starts the development API in-process and wires a client
// session against it for package tests.
package fakeapitest

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/guard"
	"github.com/jrsteele09/alpha-client/internal/fakeapi"
	"github.com/jrsteele09/alpha-client/session"
	"github.com/jrsteele09/alpha-client/tokenstore"
	"github.com/jrsteele09/alpha-client/tokenstore/memstore"
)

const (
	TestEmail    = "john.doe@example.com"
	TestPassword = "password123"
)

type Env struct {
	API     *fakeapi.Server
	Server  *httptest.Server
	Store   *memstore.Store
	Session *session.Context
	Nav     *guard.Navigator
	Client  *apiclient.Client
}

// New starts a fakeapi server and a client with an empty session.
func New(t *testing.T, opts ...apiclient.Option) *Env {
	t.Helper()

	api := fakeapi.New(fakeapi.WithLoginLimit(0))
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	e := &Env{API: api, Server: server, Store: memstore.New()}
	e.Session = session.New(e.Store)
	e.Nav = guard.NewNavigator(guard.New(e.Session), guard.WithStart(guard.RouteLogin))

	options := append([]apiclient.Option{
		apiclient.WithHTTPClient(server.Client()),
		apiclient.WithSession(e.Session),
		apiclient.WithTokenStore(e.Store),
		apiclient.WithRedirector(e.Nav),
	}, opts...)
	e.Client = apiclient.New(server.URL, options...)
	return e
}

// SignUp registers TestEmail and stores the issued tokens in the session.
func (e *Env) SignUp(t *testing.T) tokenstore.Credentials {
	t.Helper()
	return e.SignUpAs(t, TestEmail, TestPassword)
}

func (e *Env) SignUpAs(t *testing.T, email, password string) tokenstore.Credentials {
	t.Helper()

	resp, err := e.Client.Do(context.Background(), apiclient.Request{
		Method:   "POST",
		Path:     fakeapi.RouteAuthRegister,
		Body:     map[string]any{"email": email, "password": password, "consent_privacy": true},
		SkipAuth: true,
	})
	require.NoError(t, err)

	var tr tokenstore.TokenResponse
	require.NoError(t, resp.Decode(&tr))
	creds, ok := tr.Credentials()
	require.True(t, ok)

	e.Session.SetCredentials(creds)
	return creds
}
