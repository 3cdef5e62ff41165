package apiclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/alpha-client/apiclient"
	"github.com/jrsteele09/alpha-client/guard"
	apperrors "github.com/jrsteele09/alpha-client/internal/errors"
	"github.com/jrsteele09/alpha-client/internal/utils"
	"github.com/jrsteele09/alpha-client/session"
	"github.com/jrsteele09/alpha-client/tokenstore"
	"github.com/jrsteele09/alpha-client/tokenstore/memstore"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

// testFixture wires a client to a scripted API server.
type testFixture struct {
	server  *httptest.Server
	store   *memstore.Store
	session *session.Context
	nav     *guard.Navigator
	client  *apiclient.Client

	mu    sync.Mutex
	calls []recordedCall
}

func setupTestFixture(t *testing.T, handler http.HandlerFunc, opts ...apiclient.Option) *testFixture {
	t.Helper()

	f := &testFixture{
		store: memstore.New(memstore.WithCredentials("abc", utils.Ptr("r1"))),
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, recordedCall{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          string(body),
		})
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	f.session = session.New(f.store)
	f.nav = guard.NewNavigator(guard.New(f.session), guard.WithStart(guard.RouteVitals))

	options := append([]apiclient.Option{
		apiclient.WithHTTPClient(f.server.Client()),
		apiclient.WithSession(f.session),
		apiclient.WithTokenStore(f.store),
		apiclient.WithRedirector(f.nav),
	}, opts...)
	f.client = apiclient.New(f.server.URL, options...)
	return f
}

func (f *testFixture) callsTo(path string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type vital struct {
	ID       string  `json:"id"`
	Systolic float64 `json:"systolic"`
}

func TestClient_Success(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/vitals":
			writeJSON(w, http.StatusOK, []vital{{ID: "v1", Systolic: 120}})
		case "/vitals/v1":
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	t.Run("parsed body returned unchanged with bearer header", func(t *testing.T) {
		items, err := apiclient.List[vital](ctx, f.client, "/vitals")
		require.NoError(t, err)
		require.Equal(t, []vital{{ID: "v1", Systolic: 120}}, items)

		calls := f.callsTo("/vitals")
		require.Len(t, calls, 1)
		require.Equal(t, "Bearer abc", calls[0].Authorization)
		require.NotEmpty(t, calls[0].RequestID)
	})

	t.Run("204 yields no content", func(t *testing.T) {
		resp, err := f.client.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: "/vitals/v1"})
		require.NoError(t, err)
		require.True(t, resp.NoContent)
		require.Empty(t, resp.Body)

		out, err := apiclient.Call[vital](ctx, f.client, http.MethodDelete, "/vitals/v1", nil)
		require.NoError(t, err)
		require.Nil(t, out)
	})

	t.Run("json body is sent", func(t *testing.T) {
		_, err := f.client.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: "/vitals/v1", Body: map[string]int{"systolic": 130}})
		require.NoError(t, err)
		calls := f.callsTo("/vitals/v1")
		require.JSONEq(t, `{"systolic":130}`, calls[len(calls)-1].Body)
	})
}

func TestClient_RefreshAndReplay(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "def"})
		case "/reports/summary":
			if r.Header.Get("Authorization") != "Bearer def" {
				http.Error(w, `{"detail":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"period": "week"})
		}
	})

	var observed []string
	f.session.Subscribe(func(token string) { observed = append(observed, token) })

	out, err := apiclient.Get[map[string]string](context.Background(), f.client, "/reports/summary")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"period": "week"}, *out)

	calls := f.callsTo("/reports/summary")
	require.Len(t, calls, 2)
	require.Equal(t, "Bearer abc", calls[0].Authorization)
	require.Equal(t, "Bearer def", calls[1].Authorization)
	require.NotEqual(t, calls[0].RequestID, calls[1].RequestID)

	refresh := f.callsTo("/auth/refresh")
	require.Len(t, refresh, 1)
	require.Empty(t, refresh[0].Authorization)
	require.JSONEq(t, `{"refresh_token":"r1"}`, refresh[0].Body)

	v, _ := f.store.Value(tokenstore.KeyAccessToken)
	require.Equal(t, "def", v)
	rt, _ := f.store.Value(tokenstore.KeyRefreshToken)
	require.Equal(t, "r1", rt)
	require.Equal(t, "def", f.session.Token())
	require.Equal(t, []string{"def"}, observed)
	require.Equal(t, guard.RouteVitals, f.nav.Current())
}

func TestClient_RefreshRotatesRefreshToken(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "def", "refresh_token": "r2"})
		default:
			if r.Header.Get("Authorization") != "Bearer def" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}
	})

	saves := f.store.Saves()
	resp, err := f.client.Do(context.Background(), apiclient.Request{Path: "/goals"})
	require.NoError(t, err)
	require.True(t, resp.NoContent)

	rt, _ := f.store.Value(tokenstore.KeyRefreshToken)
	require.Equal(t, "r2", rt)
	require.Equal(t, "def", f.session.Token())
	require.Equal(t, saves+1, f.store.Saves(), "one write for the refreshed pair")
}

func TestClient_RefreshFailureLogsOut(t *testing.T) {
	tests := []struct {
		name        string
		seed        []memstore.Option
		refresh     http.HandlerFunc
		wantRefresh int
	}{
		{
			name: "refresh endpoint rejects",
			refresh: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "invalid refresh token", http.StatusUnauthorized)
			},
			wantRefresh: 1,
		},
		{
			name:        "refresh endpoint errors",
			refresh:     func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			wantRefresh: 1,
		},
		{
			name: "refresh response without access token",
			refresh: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]string{"token_type": "bearer"})
			},
			wantRefresh: 1,
		},
		{
			name:        "refresh response not json",
			refresh:     func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) },
			wantRefresh: 1,
		},
		{
			name:        "network failure during refresh",
			refresh:     func(w http.ResponseWriter, r *http.Request) { panic(http.ErrAbortHandler) },
			wantRefresh: 1,
		},
		{
			name:        "no refresh token stored",
			seed:        []memstore.Option{memstore.WithCredentials("abc", utils.Ptr(""))},
			wantRefresh: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/auth/refresh" {
					tt.refresh(w, r)
					return
				}
				http.Error(w, "expired", http.StatusUnauthorized)
			})
			for _, opt := range tt.seed {
				opt(f.store)
			}

			_, err := f.client.Do(context.Background(), apiclient.Request{Path: "/symptoms"})
			require.ErrorIs(t, err, apperrors.ErrUnauthenticated)

			require.Len(t, f.callsTo("/symptoms"), 1, "no replay after a failed refresh")
			require.Len(t, f.callsTo("/auth/refresh"), tt.wantRefresh)

			_, ok := f.store.Value(tokenstore.KeyAccessToken)
			require.False(t, ok)
			_, ok = f.store.Value(tokenstore.KeyRefreshToken)
			require.False(t, ok)
			require.Empty(t, f.session.Token())
			require.Equal(t, guard.RouteLogin, f.nav.Current())
		})
	}
}

func TestClient_ReplayRejectedLogsOut(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "def"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := f.client.Do(context.Background(), apiclient.Request{Path: "/cycles"})
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	require.Len(t, f.callsTo("/cycles"), 2)
	require.Len(t, f.callsTo("/auth/refresh"), 1)
	require.Zero(t, f.store.Len())
	require.Empty(t, f.session.Token())
	require.Equal(t, guard.RouteLogin, f.nav.Current())
}

func TestClient_ReplayOtherFailureIsSurfaced(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "def"})
			return
		}
		if r.Header.Get("Authorization") == "Bearer def" {
			http.Error(w, "Goal not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := f.client.Do(context.Background(), apiclient.Request{Path: "/goals/g1"})
	var reqErr *apiclient.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	require.Equal(t, "Goal not found", reqErr.Message)
	require.Equal(t, "def", f.session.Token())
}

func TestClient_RequestFailure(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/register":
			http.Error(w, `{"detail":"Email already registered"}`, http.StatusBadRequest)
		case "/auth/login":
			http.Error(w, `{"detail":"Invalid credentials"}`, http.StatusUnauthorized)
		case "/empty":
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})
	ctx := context.Background()

	t.Run("body text is the message", func(t *testing.T) {
		_, err := f.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/auth/register", SkipAuth: true})
		var reqErr *apiclient.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, `{"detail":"Email already registered"}`, err.Error())
		require.Equal(t, "Email already registered", reqErr.Detail())
		require.Len(t, f.callsTo("/auth/refresh"), 0)
	})

	t.Run("status text when body is empty", func(t *testing.T) {
		_, err := f.client.Do(ctx, apiclient.Request{Path: "/empty"})
		var reqErr *apiclient.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
		require.Equal(t, "Service Unavailable", reqErr.Message)
		require.Len(t, f.callsTo("/empty"), 1)
	})

	t.Run("skip auth 401 does not refresh", func(t *testing.T) {
		_, err := f.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/auth/login", SkipAuth: true})
		var reqErr *apiclient.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
		require.Len(t, f.callsTo("/auth/refresh"), 0)
		require.Empty(t, f.callsTo("/auth/login")[0].Authorization)
		require.Equal(t, "abc", f.session.Token())
	})
}

func TestClient_TransportFailure(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	f.server.Close()

	_, err := f.client.Do(context.Background(), apiclient.Request{Path: "/vitals"})
	require.ErrorIs(t, err, apperrors.ErrTransport)
	require.Equal(t, "abc", f.session.Token())
}

func TestClient_InvalidPath(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := f.client.Do(context.Background(), apiclient.Request{Path: "vitals"})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestClient_EmptySessionSendsNoBearer(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	f.session.SetToken("")

	_, err := f.client.Do(context.Background(), apiclient.Request{Path: "/consent"})
	require.NoError(t, err)
	require.Empty(t, f.callsTo("/consent")[0].Authorization)
}

// concurrentRefreshHandler answers 401 to the stale token and holds every
// refresh response until both requests have been rejected once.
func concurrentRefreshHandler() http.HandlerFunc {
	var (
		mu       sync.Mutex
		rejected int
		issued   int
	)
	bothRejected := make(chan struct{})
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			select {
			case <-bothRejected:
			case <-time.After(2 * time.Second):
			}
			time.Sleep(100 * time.Millisecond)
			mu.Lock()
			issued++
			token := fmt.Sprintf("fresh-%d", issued)
			mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
			return
		}
		if r.Header.Get("Authorization") == "Bearer abc" {
			mu.Lock()
			rejected++
			if rejected == 2 {
				close(bothRejected)
			}
			mu.Unlock()
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func runConcurrent(t *testing.T, f *testFixture) {
	t.Helper()
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, path := range []string{"/vitals", "/symptoms"} {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			_, err := f.client.Do(context.Background(), apiclient.Request{Path: path})
			errs <- err
		}(path)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestClient_ConcurrentRefreshIsIndependent(t *testing.T) {
	f := setupTestFixture(t, concurrentRefreshHandler())

	runConcurrent(t, f)
	require.Len(t, f.callsTo("/auth/refresh"), 2)
}

func TestClient_ConcurrentRefreshCoalesced(t *testing.T) {
	f := setupTestFixture(t, concurrentRefreshHandler(), apiclient.WithRefreshCoalescing())

	runConcurrent(t, f)
	require.Len(t, f.callsTo("/auth/refresh"), 1)
	require.Equal(t, "fresh-1", f.session.Token())
}

func passwordCheckHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/refresh":
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "def"})
	case "/account/delete":
		if r.Header.Get("Authorization") != "Bearer def" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired token"})
			return
		}
		var body struct {
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "right" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestClient_RefreshableDeclines(t *testing.T) {
	deleteAccount := func(f *testFixture, password string) error {
		_, err := f.client.Do(context.Background(), apiclient.Request{
			Method:      http.MethodPost,
			Path:        "/account/delete",
			Body:        map[string]string{"password": password},
			Refreshable: apiclient.UnlessDetail("Invalid credentials"),
		})
		return err
	}

	t.Run("expired token is refreshed and replayed", func(t *testing.T) {
		f := setupTestFixture(t, passwordCheckHandler)
		require.NoError(t, deleteAccount(f, "right"))
		require.Len(t, f.callsTo("/auth/refresh"), 1)
		require.Len(t, f.callsTo("/account/delete"), 2)
	})

	t.Run("declined 401 keeps the session", func(t *testing.T) {
		f := setupTestFixture(t, passwordCheckHandler)
		f.session.SetToken("def")

		err := deleteAccount(f, "wrong")
		var reqErr *apiclient.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
		require.Equal(t, "Invalid credentials", reqErr.Detail())
		require.Empty(t, f.callsTo("/auth/refresh"))
		require.Equal(t, "def", f.session.Token())
	})

	t.Run("declined 401 on the replay keeps the session", func(t *testing.T) {
		f := setupTestFixture(t, passwordCheckHandler)

		err := deleteAccount(f, "wrong")
		var reqErr *apiclient.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, "Invalid credentials", reqErr.Detail())
		require.Len(t, f.callsTo("/auth/refresh"), 1)
		require.Equal(t, "def", f.session.Token())
		require.Zero(t, f.store.Clears())
		require.Equal(t, guard.RouteVitals, f.nav.Current())
	})
}

func TestClient_CancelledRefreshKeepsSession(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for len(f.callsTo("/auth/refresh")) == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		cancel()
	}()

	_, err := f.client.Do(ctx, apiclient.Request{Path: "/vitals"})
	require.ErrorIs(t, err, apperrors.ErrTransport)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, f.store.Clears())
	require.Equal(t, "abc", f.session.Token())
	rt, _ := f.store.Value(tokenstore.KeyRefreshToken)
	require.Equal(t, "r1", rt)
	require.Equal(t, guard.RouteVitals, f.nav.Current())
}

func TestClient_CoalescedRefreshSurvivesCancelledCaller(t *testing.T) {
	release := make(chan struct{})
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			<-release
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "def"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer def" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}, apiclient.WithRefreshCoalescing())

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() {
		_, err := f.client.Do(ctx, apiclient.Request{Path: "/vitals"})
		cancelled <- err
	}()
	for len(f.callsTo("/auth/refresh")) == 0 {
		time.Sleep(5 * time.Millisecond)
	}

	waiting := make(chan error, 1)
	go func() {
		_, err := f.client.Do(context.Background(), apiclient.Request{Path: "/symptoms"})
		waiting <- err
	}()

	cancel()
	require.ErrorIs(t, <-cancelled, context.Canceled)
	close(release)

	require.NoError(t, <-waiting)
	require.Equal(t, "def", f.session.Token())
	require.Zero(t, f.store.Clears())
}
