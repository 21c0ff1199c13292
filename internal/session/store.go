// Package session implements the identity stores. Customer and admin sessions
// are the same Store type configured with different storage keys and endpoint
// prefixes; they never share state.
//
// A store moves through three states: unvalidated (a persisted token was
// loaded but not yet checked), authenticated (the backend confirmed the token
// and returned the principal) and anonymous. Consumers must treat "loading"
// and "authenticated" as distinct: while Loading() is true, an unauthenticated
// answer is not yet final.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/storage"
	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
)

// Endpoints configures one session variant.
type Endpoints struct {
	// StorageKey is the durable storage key holding the bearer token.
	StorageKey string
	// LoginPath is the credential login endpoint.
	LoginPath string
	// SignupPath is the account creation endpoint; empty when the variant
	// does not support signup (admin).
	SignupPath string
	// MePath is the "who am I" endpoint used to validate a stored token.
	MePath string
}

// CustomerEndpoints returns the customer session configuration.
func CustomerEndpoints() Endpoints {
	return Endpoints{
		StorageKey: storage.KeyUserToken,
		LoginPath:  "/api/auth/login",
		SignupPath: "/api/auth/signup",
		MePath:     "/api/auth/me",
	}
}

// AdminEndpoints returns the admin session configuration.
func AdminEndpoints() Endpoints {
	return Endpoints{
		StorageKey: storage.KeyAdminToken,
		LoginPath:  "/api/admin/login",
		MePath:     "/api/admin/me",
	}
}

// Principal is the authenticated record behind the session, customer or
// admin.
type Principal struct {
	ID       string
	Email    string
	FullName string
	Phone    string
}

// Result reports the outcome of a login or signup attempt. Failures carry a
// human-readable message for display; callers inspect OK rather than an
// error.
type Result struct {
	OK      bool
	Message string
}

// Store owns one session's bearer token and principal.
type Store struct {
	mu        sync.RWMutex
	eps       Endpoints
	api       *api.Client
	storage   storage.Store
	logger    *slog.Logger
	token     string
	principal *Principal
	loading   bool
}

// New creates a session store. Any token persisted under the configured
// storage key is loaded; the store then reports Loading() until Validate has
// run once.
func New(ctx context.Context, eps Endpoints, apiClient *api.Client, st storage.Store, log *slog.Logger) *Store {
	s := &Store{
		eps:     eps,
		storage: st,
		logger:  log,
	}
	// The API client reads the token through the store so every request
	// reflects the current value, not a snapshot.
	s.api = apiClient.WithTokenSource(s)

	data, err := st.Load(ctx, eps.StorageKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "failed to load persisted token",
				slog.String("key", eps.StorageKey),
				slog.String("error", err.Error()),
			)
		}
		return s
	}

	s.token = string(data)
	s.loading = s.token != ""
	return s
}

// loginResponse is the body returned by login and signup endpoints. Customer
// endpoints nest the principal under "user", admin endpoints under "admin".
type loginResponse struct {
	AccessToken string            `json:"access_token"`
	User        *principalPayload `json:"user"`
	Admin       *principalPayload `json:"admin"`
}

type principalPayload struct {
	ID       string `json:"id"`
	AdminID  string `json:"admin_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func (p *principalPayload) principal() *Principal {
	if p == nil {
		return nil
	}
	id := p.ID
	if id == "" {
		id = p.AdminID
	}
	return &Principal{
		ID:       id,
		Email:    p.Email,
		FullName: p.FullName,
		Phone:    p.Phone,
	}
}

// Validate checks a previously loaded token against the backend once. On
// success the principal is set; on failure the token is discarded from memory
// and durable storage and the session becomes anonymous. Loading() reports
// false afterwards either way.
func (s *Store) Validate(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return
	}

	var payload principalPayload
	err := s.api.Get(ctx, s.eps.MePath, nil, &payload, "token verification failed")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.logger.WarnContext(ctx, "token verification failed, resetting session",
			slog.String("key", s.eps.StorageKey),
			slog.String("error", err.Error()),
		)
		s.token = ""
		s.principal = nil
		if derr := s.storage.Delete(ctx, s.eps.StorageKey); derr != nil {
			s.logger.ErrorContext(ctx, "failed to clear stored token",
				slog.String("error", derr.Error()),
			)
		}
		return
	}

	s.principal = payload.principal()
	s.logger.InfoContext(ctx, "session validated",
		slog.String("key", s.eps.StorageKey),
		slog.String("email", payload.Email),
	)
}

// Login posts credentials and, on success, durably stores the returned token
// and sets the principal from the response. Failures return the server's
// detail message, falling back to a generic one.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	body := map[string]string{"email": email, "password": password}
	return s.authenticate(ctx, s.eps.LoginPath, body, "Login failed")
}

// Signup creates an account on the customer variant with the same contract as
// Login. Calling it on a variant without a signup endpoint always fails.
func (s *Store) Signup(ctx context.Context, email, password, fullName, phone string) Result {
	if s.eps.SignupPath == "" {
		return Result{Message: "signup is not supported for this session"}
	}
	body := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
		"phone":     phone,
	}
	return s.authenticate(ctx, s.eps.SignupPath, body, "Signup failed")
}

func (s *Store) authenticate(ctx context.Context, path string, body map[string]string, fallback string) Result {
	var resp loginResponse
	if err := s.api.Post(ctx, path, body, &resp, fallback); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return Result{Message: appErr.Message}
		}
		return Result{Message: fallback}
	}

	principal := resp.User.principal()
	if principal == nil {
		principal = resp.Admin.principal()
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.principal = principal
	s.loading = false
	s.mu.Unlock()

	if err := s.storage.Save(ctx, s.eps.StorageKey, []byte(resp.AccessToken)); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist token",
			slog.String("key", s.eps.StorageKey),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "logged in", slog.String("key", s.eps.StorageKey))
	return Result{OK: true}
}

// Logout clears durable token storage and in-memory state. It always
// succeeds and makes no backend call.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.principal = nil
	s.loading = false
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.eps.StorageKey); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear stored token",
			slog.String("key", s.eps.StorageKey),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "logged out", slog.String("key", s.eps.StorageKey))
}

// Token returns the current bearer token, or empty when anonymous. It
// implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Principal returns the validated principal, or nil while loading or
// anonymous.
func (s *Store) Principal() *Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal
}

// IsAuthenticated reports whether the session holds both a token and a
// validated principal.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal != nil && s.token != ""
}

// Loading reports whether token validation is still outstanding. While true,
// !IsAuthenticated() does not mean logged out.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// API returns a request client that attaches this session's current bearer
// token to every call.
func (s *Store) API() *api.Client {
	return s.api
}
