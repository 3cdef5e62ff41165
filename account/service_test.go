package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/alpha-client/account"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/fakeapi"
	"github.com/jrsteele09/alpha-client/internal/fakeapi/fakeapitest"
	"github.com/jrsteele09/alpha-client/internal/utils"
	"github.com/jrsteele09/alpha-client/vitals"
)

func TestService_Export(t *testing.T) {
	env := fakeapitest.New(t)
	env.SignUp(t)
	svc := account.NewService(env.Client, env.Session)
	ctx := context.Background()

	_, err := vitals.NewService(env.Client).Create(ctx, vitals.VitalIn{HeartRate: utils.Ptr(64.0)})
	require.NoError(t, err)

	raw, err := svc.Export(ctx)
	require.NoError(t, err)

	var doc struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		Vitals   []map[string]any `json:"vitals"`
		Symptoms []map[string]any `json:"symptoms"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, fakeapitest.TestEmail, doc.User.Email)
	require.Len(t, doc.Vitals, 1)
	require.Empty(t, doc.Symptoms)
	require.NotContains(t, string(raw), "password")
}

func TestService_Delete(t *testing.T) {
	env := fakeapitest.New(t)
	env.SignUp(t)
	svc := account.NewService(env.Client, env.Session)
	ctx := context.Background()
	hooks := env.API.Hooks()

	t.Run("password required", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, ""), apperrors.ErrInvalidRequest)
	})

	t.Run("wrong password keeps the session and skips refresh", func(t *testing.T) {
		err := svc.Delete(ctx, "wrong")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		require.NotEmpty(t, env.Session.Token())
		require.Zero(t, hooks.Calls(http.MethodPost, fakeapi.RouteAuthRefresh))
	})

	t.Run("success clears the session", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, fakeapitest.TestPassword))
		require.Empty(t, env.Session.Token())
		require.Zero(t, env.Store.Len())
	})
}

func TestService_DeleteWithExpiredToken(t *testing.T) {
	env := fakeapitest.New(t)
	hooks := env.API.Hooks()
	hooks.SetAccessTokenTTL(-time.Minute)
	env.SignUp(t)
	hooks.SetAccessTokenTTL(15 * time.Minute)
	svc := account.NewService(env.Client, env.Session)
	ctx := context.Background()

	t.Run("wrong password after a refresh", func(t *testing.T) {
		err := svc.Delete(ctx, "wrong")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		require.Equal(t, 1, hooks.Calls(http.MethodPost, fakeapi.RouteAuthRefresh))
		require.NotEmpty(t, env.Session.Token())
	})

	t.Run("correct password", func(t *testing.T) {
		hooks.SetAccessTokenTTL(-time.Minute)
		_, err := env.Client.Refresh(ctx)
		require.NoError(t, err)
		hooks.SetAccessTokenTTL(15 * time.Minute)
		hooks.Reset()

		require.NoError(t, svc.Delete(ctx, fakeapitest.TestPassword))
		require.Equal(t, 1, hooks.Calls(http.MethodPost, fakeapi.RouteAuthRefresh))
		require.Equal(t, 2, hooks.Calls(http.MethodPost, account.RouteDelete))
		require.Empty(t, env.Session.Token())
		require.Zero(t, env.Store.Len())
	})
}
