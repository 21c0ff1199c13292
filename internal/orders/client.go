// Package orders exposes the customer-facing order history views.
package orders

import (
	"context"
	"log/slog"

	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/internal/session"
	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
)

// Client fetches orders on behalf of the signed-in customer.
type Client struct {
	api     *api.Client
	session *session.Store
	logger  *slog.Logger
}

// NewClient creates an orders client bound to the customer session.
func NewClient(sess *session.Store, log *slog.Logger) *Client {
	return &Client{
		api:     sess.API(),
		session: sess,
		logger:  log.With(slog.String("component", "orders")),
	}
}

// GetOrder fetches one order by ID, as shown on the confirmation page.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	if err := c.api.Get(ctx, "/api/orders/"+id, nil, &order, "failed to load order"); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders fetches the signed-in customer's order history, newest first as
// returned by the backend.
func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	if !c.session.IsAuthenticated() {
		return nil, apperrors.LoginRequired("please log in to view your orders")
	}

	var list []domain.Order
	if err := c.api.Get(ctx, "/api/auth/orders", nil, &list, "failed to load orders"); err != nil {
		c.logger.ErrorContext(ctx, "order history fetch failed",
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return list, nil
}
