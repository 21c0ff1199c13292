// Package admin implements the back-office client: product CRUD, order
// management and the dashboard stats. Every call requires an authenticated
// admin session; the backend enforces this too, but checking locally keeps
// the failure mode a login prompt instead of a 401 round trip.
package admin

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/internal/session"
	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
	"github.com/pranavchugh1/alveera/pkg/validator"
)

// Client drives the admin back-office against the admin session.
type Client struct {
	api     *api.Client
	session *session.Store
	logger  *slog.Logger
}

// NewClient creates an admin client bound to the admin session.
func NewClient(sess *session.Store, log *slog.Logger) *Client {
	return &Client{
		api:     sess.API(),
		session: sess,
		logger:  log.With(slog.String("component", "admin")),
	}
}

func (c *Client) requireAdmin() error {
	if !c.session.IsAuthenticated() {
		return apperrors.LoginRequired("admin login required")
	}
	return nil
}

// ProductFilter narrows the back-office product table. Search matches
// case-insensitively against product name and design number, applied locally
// after the full list is fetched.
type ProductFilter struct {
	Search string
}

func (f ProductFilter) matches(p domain.Product) bool {
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.DesignNo), term)
}

// listPageSize is the page size used when walking the full catalog for the
// back-office table.
const listPageSize = 100

// ListProducts fetches the complete catalog for the product table, then
// applies the filter locally.
func (c *Client) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}

	var all []domain.Product
	for page := 1; ; page++ {
		query := url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(listPageSize)},
		}
		var resp struct {
			Products []domain.Product `json:"products"`
			HasMore  bool             `json:"has_more"`
		}
		if err := c.api.Get(ctx, "/api/products", query, &resp, "failed to load products"); err != nil {
			return nil, err
		}
		all = append(all, resp.Products...)
		if !resp.HasMore {
			break
		}
	}

	if filter.Search == "" {
		return all, nil
	}
	filtered := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if filter.matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetProduct fetches one product for the edit form.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	var product domain.Product
	if err := c.api.Get(ctx, "/api/products/"+id, nil, &product, "failed to load product"); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct validates and creates a product.
func (c *Client) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	var product domain.Product
	if err := c.api.Post(ctx, "/api/products", input, &product, "failed to create product"); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("design_no", product.DesignNo),
	)
	return &product, nil
}

// UpdateProduct validates and replaces a product's details.
func (c *Client) UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	var product domain.Product
	if err := c.api.Put(ctx, "/api/products/"+id, input, &product, "failed to update product"); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "product updated", slog.String("product_id", id))
	return &product, nil
}

// DeleteProduct removes a product from the catalog.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.api.Delete(ctx, "/api/products/"+id, "failed to delete product"); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

// ListOrders fetches all orders, optionally narrowed to one status.
func (c *Client) ListOrders(ctx context.Context, status string) ([]domain.Order, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	if status != "" && !domain.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidInput("invalid order status: " + status)
	}

	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	var list []domain.Order
	if err := c.api.Get(ctx, "/api/admin/orders", query, &list, "failed to load orders"); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus moves an order to a new status. The status is checked locally
// against the known lifecycle before any request is made.
func (c *Client) UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	if !domain.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidInput(
			"invalid order status: " + status + " (valid: " + strings.Join(domain.ValidOrderStatuses(), ", ") + ")")
	}

	body := map[string]string{"status": status}
	var order domain.Order
	if err := c.api.Put(ctx, "/api/admin/orders/"+orderID+"/status", body, &order, "failed to update order status"); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID),
		slog.String("status", status),
	)
	return &order, nil
}

// Stats fetches the dashboard counters.
func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	var stats domain.Stats
	if err := c.api.Get(ctx, "/api/admin/stats", nil, &stats, "failed to load stats"); err != nil {
		return nil, err
	}
	return &stats, nil
}
