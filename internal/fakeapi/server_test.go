package fakeapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/alpha-client/internal/fakeapi"
	"github.com/jrsteele09/alpha-client/reports"
	"github.com/jrsteele09/alpha-client/tokenstore"
	"github.com/jrsteele09/alpha-client/vitals"
)

type testFixture struct {
	api    *fakeapi.Server
	server *httptest.Server
}

func setupTestFixture(t *testing.T, opts ...fakeapi.Option) *testFixture {
	t.Helper()
	api := fakeapi.New(opts...)
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return &testFixture{api: api, server: server}
}

type response struct {
	Status int
	Body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), string(r.Body))
}

func (r response) detail(t *testing.T) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	r.decode(t, &body)
	return body.Detail
}

func (f *testFixture) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return response{Status: resp.StatusCode, Body: buf.Bytes()}
}

func (f *testFixture) register(t *testing.T, email, password string) tokenstore.TokenResponse {
	t.Helper()
	resp := f.do(t, http.MethodPost, fakeapi.RouteAuthRegister, "", map[string]any{
		"email": email, "password": password, "consent_privacy": true,
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var tokens tokenstore.TokenResponse
	resp.decode(t, &tokens)
	require.NotNil(t, tokens.AccessToken)
	require.NotNil(t, tokens.RefreshToken)
	return tokens
}

func TestServer_Auth(t *testing.T) {
	f := setupTestFixture(t)
	tokens := f.register(t, "Alice@Example.com", "secret-1")

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteAuthRegister, "", map[string]any{
			"email": "alice@example.com", "password": "other",
		})
		require.Equal(t, http.StatusBadRequest, resp.Status)
		require.Equal(t, "Email already registered", resp.detail(t))
	})

	t.Run("login with wrong password", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteAuthLogin, "", map[string]any{
			"email": "alice@example.com", "password": "nope",
		})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
		require.Equal(t, "Invalid credentials", resp.detail(t))
	})

	t.Run("login with malformed email fails validation", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteAuthLogin, "", map[string]any{
			"email": "not-an-email", "password": "x",
		})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	})

	t.Run("me returns the account", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, fakeapi.RouteAuthMe, *tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var me struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		}
		resp.decode(t, &me)
		require.Equal(t, "alice@example.com", me.Email)
		require.NotEmpty(t, me.ID)
	})

	t.Run("missing or malformed bearer", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, fakeapi.RouteAuthMe, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.Status)
		resp = f.do(t, http.MethodGet, fakeapi.RouteAuthMe, "garbage", nil)
		require.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("refresh rotates the refresh token", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *tokens.RefreshToken})
		require.Equal(t, http.StatusOK, resp.Status)
		var next tokenstore.TokenResponse
		resp.decode(t, &next)
		require.NotEqual(t, *tokens.RefreshToken, *next.RefreshToken)

		resp = f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *tokens.RefreshToken})
		require.Equal(t, http.StatusOK, resp.Status)
		var again tokenstore.TokenResponse
		resp.decode(t, &again)
		require.Equal(t, *next.RefreshToken, *again.RefreshToken)

		resp = f.do(t, http.MethodPost, fakeapi.RouteAuthLogout, "", map[string]string{"refresh_token": *next.RefreshToken})
		require.Equal(t, http.StatusNoContent, resp.Status)

		resp = f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *next.RefreshToken})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("registration records privacy consent", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, fakeapi.RouteConsent, *tokens.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var list []map[string]any
		resp.decode(t, &list)
		require.Len(t, list, 1)
		require.Equal(t, true, list[0]["privacy_accepted"])
	})
}

func TestServer_SingleUseRefreshTokens(t *testing.T) {
	f := setupTestFixture(t, fakeapi.WithRefreshReuseGrace(0))
	tokens := f.register(t, "ivy@example.com", "pw")

	resp := f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *tokens.RefreshToken})
	require.Equal(t, http.StatusOK, resp.Status)

	resp = f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *tokens.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.Status)
	require.Equal(t, "Invalid refresh token", resp.detail(t))
}

func TestServer_LoginRateLimit(t *testing.T) {
	f := setupTestFixture(t, fakeapi.WithLoginLimit(2))
	f.register(t, "bob@example.com", "pw")

	login := func() int {
		return f.do(t, http.MethodPost, fakeapi.RouteAuthLogin, "", map[string]any{
			"email": "bob@example.com", "password": "pw",
		}).Status
	}
	require.Equal(t, http.StatusOK, login())
	require.Equal(t, http.StatusOK, login())
	require.Equal(t, http.StatusTooManyRequests, login())
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestServer_AccessTokenExpiry(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	f := setupTestFixture(t, fakeapi.WithNowTime(clock.Now), fakeapi.WithAccessTokenTTL(time.Minute))
	tokens := f.register(t, "carol@example.com", "pw")

	resp := f.do(t, http.MethodGet, fakeapi.RouteVitals, *tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.Status)

	clock.Advance(2 * time.Minute)
	resp = f.do(t, http.MethodGet, fakeapi.RouteVitals, *tokens.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestServer_Hooks(t *testing.T) {
	f := setupTestFixture(t)
	tokens := f.register(t, "dave@example.com", "pw")
	hooks := f.api.Hooks()

	t.Run("reject next answers 401 once", func(t *testing.T) {
		hooks.RejectNext(1)
		require.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, fakeapi.RouteVitals, *tokens.AccessToken, nil).Status)
		require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, fakeapi.RouteVitals, *tokens.AccessToken, nil).Status)
		require.Equal(t, 2, hooks.Calls(http.MethodGet, fakeapi.RouteVitals))
	})

	t.Run("fail refresh", func(t *testing.T) {
		hooks.FailRefresh(true)
		resp := f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *tokens.RefreshToken})
		require.Equal(t, http.StatusUnauthorized, resp.Status)

		hooks.Reset()
		require.Equal(t, 0, hooks.Calls(http.MethodGet, fakeapi.RouteVitals))
		resp = f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *tokens.RefreshToken})
		require.Equal(t, http.StatusOK, resp.Status)
	})
}

func TestServer_Vitals(t *testing.T) {
	f := setupTestFixture(t)
	token := *f.register(t, "erin@example.com", "pw").AccessToken

	t.Run("empty reading is rejected", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteVitals, token, map[string]any{})
		require.Equal(t, http.StatusBadRequest, resp.Status)
		require.Equal(t, "Provide at least one vital field", resp.detail(t))
	})

	var created vitals.VitalOut
	t.Run("create classifies the reading", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteVitals, token, map[string]any{
			"systolic": 150, "diastolic": 95, "heart_rate": 72,
		})
		require.Equal(t, http.StatusCreated, resp.Status)
		resp.decode(t, &created)
		require.NotEmpty(t, created.ID)
		require.Equal(t, vitals.BPHypertensionStage2, *created.BPFlag)
		require.Equal(t, vitals.HRNormal, *created.HRFlag)
		require.Nil(t, created.TempFlag)
	})

	t.Run("update merges and reclassifies", func(t *testing.T) {
		resp := f.do(t, http.MethodPut, "/vitals/"+created.ID, token, map[string]any{"temperature_c": 38.6})
		require.Equal(t, http.StatusOK, resp.Status)
		var updated vitals.VitalOut
		resp.decode(t, &updated)
		require.Equal(t, 150.0, *updated.Systolic)
		require.Equal(t, vitals.TempFever, *updated.TempFlag)
	})

	t.Run("records are private to their owner", func(t *testing.T) {
		other := *f.register(t, "frank@example.com", "pw").AccessToken
		resp := f.do(t, http.MethodGet, fakeapi.RouteVitals, other, nil)
		require.Equal(t, "[]\n", string(resp.Body))
		resp = f.do(t, http.MethodDelete, "/vitals/"+created.ID, other, nil)
		require.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("delete", func(t *testing.T) {
		resp := f.do(t, http.MethodDelete, "/vitals/"+created.ID, token, nil)
		require.Equal(t, http.StatusNoContent, resp.Status)
		resp = f.do(t, http.MethodPut, "/vitals/"+created.ID, token, map[string]any{"heart_rate": 60})
		require.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestServer_Reports(t *testing.T) {
	f := setupTestFixture(t)
	token := *f.register(t, "gina@example.com", "pw").AccessToken

	f.do(t, http.MethodPost, fakeapi.RouteVitals, token, map[string]any{"glucose_mgdl": 60})
	f.do(t, http.MethodPost, fakeapi.RouteSymptoms, token, map[string]any{"description": "headache", "severity": "mild"})

	t.Run("week summary", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, fakeapi.RouteReportsSummary, token, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var summary reports.Summary
		resp.decode(t, &summary)
		require.Equal(t, reports.PeriodWeek, summary.Period)
		require.Equal(t, 1, summary.VitalsSummary.Total)
		require.Equal(t, 1, summary.VitalsSummary.Glucose[vitals.GlucoseHypoglycemia])
		require.Equal(t, 0, summary.VitalsSummary.BP[vitals.BPNormal])
		require.Equal(t, map[string]int{"mild": 1}, summary.SymptomSummary.BySeverity)
		require.True(t, strings.HasPrefix(summary.Markdown, "# ALPHA Summary (week)"))
	})

	t.Run("unknown period", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, fakeapi.RouteReportsSummary+"?period=year", token, nil)
		require.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	})
}

func TestServer_DeleteAccount(t *testing.T) {
	f := setupTestFixture(t)
	tokens := f.register(t, "hank@example.com", "pw")
	token := *tokens.AccessToken

	t.Run("password required", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteAccountDelete, token, map[string]string{})
		require.Equal(t, http.StatusBadRequest, resp.Status)
		require.Equal(t, "Password required", resp.detail(t))
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteAccountDelete, token, map[string]string{"password": "bad"})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
		require.Equal(t, "Invalid credentials", resp.detail(t))
	})

	t.Run("deletes the account and its tokens", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, fakeapi.RouteAccountDelete, token, map[string]string{"password": "pw"})
		require.Equal(t, http.StatusNoContent, resp.Status)

		require.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, fakeapi.RouteAuthMe, token, nil).Status)
		resp = f.do(t, http.MethodPost, fakeapi.RouteAuthRefresh, "", map[string]string{"refresh_token": *tokens.RefreshToken})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
		resp = f.do(t, http.MethodPost, fakeapi.RouteAuthLogin, "", map[string]any{"email": "hank@example.com", "password": "pw"})
		require.Equal(t, http.StatusUnauthorized, resp.Status)
	})
}

func TestServer_Reminders(t *testing.T) {
	f := setupTestFixture(t)
	token := *f.register(t, "ivy@example.com", "pw").AccessToken

	resp := f.do(t, http.MethodPost, fakeapi.RouteReminders, token, map[string]any{
		"message": "take meds", "scheduled_at": "2025-03-01T09:00:00Z", "recurrence": "daily",
	})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var created struct {
		ID string `json:"id"`
	}
	resp.decode(t, &created)

	resp = f.do(t, http.MethodPost, "/reminders/"+created.ID+"/send", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	require.JSONEq(t, `{"status":"sent"}`, string(resp.Body))

	resp = f.do(t, http.MethodPost, "/reminders/missing/send", token, nil)
	require.Equal(t, http.StatusNotFound, resp.Status)

	sub := map[string]any{"endpoint": "https://push.example.com/abc", "keys": map[string]string{"p256dh": "k", "auth": "a"}}
	resp = f.do(t, http.MethodPost, fakeapi.RouteSubscriptions, token, sub)
	require.JSONEq(t, `{"status":"created"}`, string(resp.Body))
	resp = f.do(t, http.MethodPost, fakeapi.RouteSubscriptions, token, sub)
	require.JSONEq(t, `{"status":"updated"}`, string(resp.Body))
}
