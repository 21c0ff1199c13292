package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/storage"
	"github.com/pranavchugh1/alveera/internal/storage/memory"
	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
	"github.com/pranavchugh1/alveera/pkg/httpclient"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAPI(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	log := newTestLogger()
	hc := httpclient.New(httpclient.Config{
		Timeout:         5 * time.Second,
		MaxRetries:      0,
		RetryWaitMin:    time.Millisecond,
		RetryWaitMax:    time.Millisecond,
		MaxConnsPerHost: 10,
	})
	cb := httpclient.NewCircuitBreakerClient(hc, httpclient.CircuitBreakerConfig{
		Name:         "session-test-" + t.Name(),
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 1.0,
		MinRequests:  1000,
	}, log)
	return api.New(baseURL, cb, log)
}

// backend fakes the auth endpoints with a single valid credential pair.
func authBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds["email"] != "asha@example.com" || creds["password"] != "secret123" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
				return
			}
			_, _ = w.Write([]byte(`{
				"access_token": "tok-valid",
				"user": {"id":"u1","email":"asha@example.com","full_name":"Asha Rao","phone":"9999999999"}
			}`))
		case "/api/auth/signup":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["email"] == "taken@example.com" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
				return
			}
			_, _ = w.Write([]byte(`{
				"access_token": "tok-new",
				"user": {"id":"u2","email":"` + body["email"] + `","full_name":"` + body["full_name"] + `"}
			}`))
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-valid" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"u1","email":"asha@example.com","full_name":"Asha Rao","phone":"9999999999"}`))
		case "/api/admin/login":
			_, _ = w.Write([]byte(`{
				"access_token": "tok-admin",
				"admin": {"admin_id":"a1","email":"admin@alveera.in"}
			}`))
		case "/api/admin/me":
			if r.Header.Get("Authorization") != "Bearer tok-admin" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"admin_id":"a1","email":"admin@alveera.in"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestNew_NoStoredToken(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), memory.New(), newTestLogger())

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestLogin_Success(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()
	st := memory.New()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), st, newTestLogger())
	res := s.Login(ctx, "asha@example.com", "secret123")

	require.True(t, res.OK)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-valid", s.Token())
	require.NotNil(t, s.Principal())
	assert.Equal(t, "Asha Rao", s.Principal().FullName)

	// Token persisted durably.
	data, err := st.Load(ctx, storage.KeyUserToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-valid", string(data))
}

func TestLogin_BadCredentials(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), memory.New(), newTestLogger())
	res := s.Login(ctx, "asha@example.com", "wrong")

	assert.False(t, res.OK)
	assert.Equal(t, "Incorrect email or password", res.Message)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestLogin_ServerUnreachable_FallbackMessage(t *testing.T) {
	ctx := context.Background()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, "http://127.0.0.1:1"), memory.New(), newTestLogger())
	res := s.Login(ctx, "asha@example.com", "secret123")

	assert.False(t, res.OK)
	assert.Equal(t, "Login failed", res.Message)
}

func TestSignup_Success(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), memory.New(), newTestLogger())
	res := s.Signup(ctx, "new@example.com", "secret123", "New Customer", "8888888888")

	require.True(t, res.OK)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-new", s.Token())
}

func TestSignup_EmailTaken(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), memory.New(), newTestLogger())
	res := s.Signup(ctx, "taken@example.com", "secret123", "Dup", "")

	assert.False(t, res.OK)
	assert.Equal(t, "Email already registered", res.Message)
}

func TestSignup_NotSupportedOnAdmin(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()

	s := New(ctx, AdminEndpoints(), newTestAPI(t, server.URL), memory.New(), newTestLogger())
	res := s.Signup(ctx, "x@y.com", "pw", "X", "")

	assert.False(t, res.OK)
}

func TestValidate_StoredValidToken(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Save(ctx, storage.KeyUserToken, []byte("tok-valid")))

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), st, newTestLogger())

	// Loaded token, validation outstanding: loading, not authenticated yet.
	assert.True(t, s.Loading())
	assert.False(t, s.IsAuthenticated())

	s.Validate(ctx)

	assert.False(t, s.Loading())
	assert.True(t, s.IsAuthenticated())
	require.NotNil(t, s.Principal())
	assert.Equal(t, "asha@example.com", s.Principal().Email)
}

func TestValidate_StoredInvalidToken(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Save(ctx, storage.KeyUserToken, []byte("tok-expired")))

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), st, newTestLogger())
	s.Validate(ctx)

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Principal())
	assert.Empty(t, s.Token())

	// Durable storage no longer holds the bad token.
	_, err := st.Load(ctx, storage.KeyUserToken)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestValidate_NoToken(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), memory.New(), newTestLogger())
	s.Validate(ctx)

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
}

func TestLogout(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()
	st := memory.New()

	s := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), st, newTestLogger())
	require.True(t, s.Login(ctx, "asha@example.com", "secret123").OK)

	s.Logout(ctx)

	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.Principal())

	_, err := st.Load(ctx, storage.KeyUserToken)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestAdminSession_LoginAndValidate(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()
	st := memory.New()

	s := New(ctx, AdminEndpoints(), newTestAPI(t, server.URL), st, newTestLogger())
	res := s.Login(ctx, "admin@alveera.in", "adminpw")

	require.True(t, res.OK)
	require.NotNil(t, s.Principal())
	assert.Equal(t, "a1", s.Principal().ID)

	data, err := st.Load(ctx, storage.KeyAdminToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-admin", string(data))
}

func TestSessions_AreIndependent(t *testing.T) {
	server := authBackend(t)
	defer server.Close()
	ctx := context.Background()
	st := memory.New()

	customer := New(ctx, CustomerEndpoints(), newTestAPI(t, server.URL), st, newTestLogger())
	admin := New(ctx, AdminEndpoints(), newTestAPI(t, server.URL), st, newTestLogger())

	require.True(t, customer.Login(ctx, "asha@example.com", "secret123").OK)
	require.True(t, admin.Login(ctx, "admin@alveera.in", "adminpw").OK)

	customer.Logout(ctx)

	// Customer logout must not touch the admin session or its stored token.
	assert.True(t, admin.IsAuthenticated())
	data, err := st.Load(ctx, storage.KeyAdminToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-admin", string(data))
}
