package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/internal/session"
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
		Name:         "orders-test-" + t.Name(),
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 1.0,
		MinRequests:  1000,
	}, log)
	return api.New(baseURL, cb, log)
}

func newClient(t *testing.T, baseURL string, loggedIn bool) (*Client, *session.Store) {
	t.Helper()
	ctx := context.Background()
	sess := session.New(ctx, session.CustomerEndpoints(), newTestAPI(t, baseURL), memory.New(), newTestLogger())
	if loggedIn {
		require.True(t, sess.Login(ctx, "meera@example.com", "secret").OK)
	}
	return NewClient(sess, newTestLogger()), sess
}

func ordersBackend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-orders",
				"user":         map[string]string{"id": "u-1", "email": "meera@example.com"},
			})
		case "/api/orders/ord-9":
			json.NewEncoder(w).Encode(domain.Order{
				ID:     "ord-9",
				Total:  4200,
				Status: domain.OrderStatusConfirmed,
			})
		case "/api/auth/orders":
			if r.Header.Get("Authorization") != "Bearer tok-orders" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
				return
			}
			json.NewEncoder(w).Encode([]domain.Order{
				{ID: "ord-9", Status: domain.OrderStatusConfirmed},
				{ID: "ord-3", Status: domain.OrderStatusDelivered},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Order not found"})
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGetOrder(t *testing.T) {
	server := ordersBackend(t)
	client, _ := newClient(t, server.URL, false)

	order, err := client.GetOrder(context.Background(), "ord-9")
	require.NoError(t, err)
	assert.Equal(t, "ord-9", order.ID)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
}

func TestGetOrder_NotFound(t *testing.T) {
	server := ordersBackend(t)
	client, _ := newClient(t, server.URL, false)

	_, err := client.GetOrder(context.Background(), "ord-0")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Order not found", appErr.Message)
}

func TestMyOrders(t *testing.T) {
	server := ordersBackend(t)
	client, _ := newClient(t, server.URL, true)

	list, err := client.MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ord-9", list[0].ID)
}

func TestMyOrders_RequiresLogin(t *testing.T) {
	server := ordersBackend(t)
	client, _ := newClient(t, server.URL, false)

	_, err := client.MyOrders(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrLoginRequired)
}

func TestMyOrders_AfterLogout(t *testing.T) {
	server := ordersBackend(t)
	client, sess := newClient(t, server.URL, true)
	ctx := context.Background()

	sess.Logout(ctx)

	_, err := client.MyOrders(ctx)
	assert.ErrorIs(t, err, apperrors.ErrLoginRequired)
}
