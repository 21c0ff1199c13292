package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranavchugh1/alveera/internal/config"
	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/pkg/logger"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-app",
				"user":         map[string]string{"id": "u-1", "email": "meera@example.com"},
			})
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-app" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "u-1", "email": "meera@example.com"})
		case "/api/products":
			json.NewEncoder(w).Encode(map[string]any{
				"products":       []domain.Product{{ID: "p-1", Name: "Saree"}},
				"total_products": 1,
				"total_pages":    1,
				"has_more":       false,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not found"})
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	t.Setenv("API_BASE_URL", baseURL)
	t.Setenv("STATE_DIR", filepath.Join(t.TempDir(), "state"))
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNew_WiresEverything(t *testing.T) {
	server := fakeBackend(t)
	ctx := context.Background()

	a, err := New(ctx, testConfig(t, server.URL), logger.New("app-test", "error"))
	require.NoError(t, err)
	defer a.Shutdown(ctx)

	require.NotNil(t, a.Cart)
	require.NotNil(t, a.Customer)
	require.NotNil(t, a.Admin)
	require.NotNil(t, a.Catalog)
	require.NotNil(t, a.Checkout)
	require.NotNil(t, a.Orders)
	require.NotNil(t, a.AdminClient)

	assert.False(t, a.Customer.Loading(), "startup validation completes")
	assert.False(t, a.Customer.IsAuthenticated())

	a.Catalog.Refresh(ctx)
	assert.Len(t, a.Catalog.Results().Items, 1)
}

func TestNew_StatePersistsAcrossRestarts(t *testing.T) {
	server := fakeBackend(t)
	ctx := context.Background()
	cfg := testConfig(t, server.URL)
	log := logger.New("app-test", "error")

	first, err := New(ctx, cfg, log)
	require.NoError(t, err)
	require.NoError(t, first.Cart.Add(ctx, domain.Product{ID: "p-1", Name: "Saree", Price: 1500}, 2))
	require.True(t, first.Customer.Login(ctx, "meera@example.com", "secret").OK)
	require.NoError(t, first.Shutdown(ctx))

	second, err := New(ctx, cfg, log)
	require.NoError(t, err)
	defer second.Shutdown(ctx)

	assert.Equal(t, 2, second.Cart.ItemCount(), "cart reloads from disk")
	assert.Equal(t, "tok-app", second.Customer.Token(), "token reloads from disk")
}
