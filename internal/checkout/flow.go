// Package checkout turns the current cart and session into a placed order.
package checkout

import (
	"context"
	"log/slog"

	"github.com/pranavchugh1/alveera/internal/api"
	"github.com/pranavchugh1/alveera/internal/cart"
	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/internal/session"
	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
	"github.com/pranavchugh1/alveera/pkg/validator"
)

// ContactInfo is the customer contact block collected at checkout.
type ContactInfo struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=7,max=20"`
}

// Flow coordinates order placement against the cart and customer session.
type Flow struct {
	api     *api.Client
	cart    *cart.Store
	session *session.Store
	logger  *slog.Logger
}

// NewFlow creates a checkout flow bound to the customer session.
func NewFlow(apiClient *api.Client, cartStore *cart.Store, sess *session.Store, log *slog.Logger) *Flow {
	return &Flow{
		api:     apiClient,
		cart:    cartStore,
		session: sess,
		logger:  log.With(slog.String("component", "checkout")),
	}
}

// DefaultContactInfo prefills the contact form from the signed-in customer.
// It returns a zero value when no customer is authenticated.
func (f *Flow) DefaultContactInfo() ContactInfo {
	principal := f.session.Principal()
	if principal == nil {
		return ContactInfo{}
	}
	return ContactInfo{
		Name:  principal.FullName,
		Email: principal.Email,
		Phone: principal.Phone,
	}
}

// PlaceOrder validates the cart, session and contact details, submits the
// order, and clears the cart on success. The cart is left untouched when
// submission fails so the customer can retry.
func (f *Flow) PlaceOrder(ctx context.Context, contact ContactInfo, paymentMethod string) (*domain.Order, error) {
	if !f.session.IsAuthenticated() {
		return nil, apperrors.LoginRequired("please log in to place an order")
	}

	lines := f.cart.Lines()
	if len(lines) == 0 {
		return nil, apperrors.EmptyCart()
	}

	if err := validator.Validate(contact); err != nil {
		return nil, err
	}
	if !domain.IsValidPaymentMethod(paymentMethod) {
		return nil, apperrors.InvalidInput("invalid payment method: " + paymentMethod)
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	payload := domain.OrderCreate{
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		CustomerPhone: contact.Phone,
		Items:         items,
		Total:         f.cart.Total(),
		PaymentMethod: paymentMethod,
	}

	var order domain.Order
	if err := f.api.Post(ctx, "/api/orders", payload, &order, "failed to place order"); err != nil {
		f.logger.ErrorContext(ctx, "order placement failed",
			slog.Int("items", len(items)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	f.cart.Clear(ctx)
	f.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.Float64("total", order.Total),
	)
	return &order, nil
}
