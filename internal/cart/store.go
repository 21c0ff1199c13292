// Package cart implements the persistent shopping cart store: a mutex-guarded
// list of cart lines that writes through to durable client storage on every
// mutation and reloads it at construction.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/pranavchugh1/alveera/internal/domain"
	"github.com/pranavchugh1/alveera/internal/storage"
	apperrors "github.com/pranavchugh1/alveera/pkg/errors"
)

// Store owns the cart lines. All operations are safe for concurrent use;
// mutations persist the full line list before returning.
type Store struct {
	mu      sync.RWMutex
	lines   domain.Cart
	storage storage.Store
	logger  *slog.Logger
}

// NewStore creates a cart store, restoring any persisted lines. An absent or
// unparsable payload yields an empty cart; the failure is logged, not
// surfaced.
func NewStore(ctx context.Context, st storage.Store, log *slog.Logger) *Store {
	s := &Store{
		lines:   domain.Cart{},
		storage: st,
		logger:  log,
	}

	data, err := st.Load(ctx, storage.KeyCart)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, "failed to load persisted cart, starting empty",
				slog.String("error", err.Error()),
			)
		}
		return s
	}

	var lines domain.Cart
	if err := json.Unmarshal(data, &lines); err != nil {
		log.WarnContext(ctx, "persisted cart is unparsable, starting empty",
			slog.String("error", err.Error()),
		)
		return s
	}

	s.lines = lines
	return s
}

// Add merges quantity into an existing line for the product, or appends a new
// line with a snapshot of the product taken now.
func (s *Store) Add(ctx context.Context, product domain.Product, quantity int) error {
	if product.ID == "" {
		return apperrors.InvalidInput("product id is required")
	}
	if quantity <= 0 {
		return apperrors.InvalidInput("quantity must be greater than 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.lines.FindLineIndex(product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID: product.ID,
			Quantity:  quantity,
			Product:   product.Snapshot(),
		})
	}

	s.persistLocked(ctx)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("product_id", product.ID),
		slog.Int("quantity", quantity),
	)
	return nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line. Updating an absent product is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lines.FindLineIndex(productID)
	if i < 0 {
		return
	}

	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = quantity
	}

	s.persistLocked(ctx)

	s.logger.InfoContext(ctx, "cart line quantity updated",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)
}

// Remove deletes the line for the product. Removing an absent product is a
// no-op.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.lines.FindLineIndex(productID)
	if i < 0 {
		return
	}

	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persistLocked(ctx)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("product_id", productID),
	)
}

// Clear empties the cart. Called after successful order placement.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = domain.Cart{}
	s.persistLocked(ctx)

	s.logger.InfoContext(ctx, "cart cleared")
}

// Lines returns a copy of the current cart lines.
func (s *Store) Lines() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make(domain.Cart, len(s.lines))
	copy(cp, s.lines)
	return cp
}

// Total returns the sum of quantity x price over all lines.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.Total()
}

// ItemCount returns the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines.ItemCount()
}

// persistLocked writes the full line list to durable storage. The caller
// holds the write lock. Persistence failures are logged; the in-memory
// mutation stands either way.
func (s *Store) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.lines)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal cart", slog.String("error", err.Error()))
		return
	}

	if err := s.storage.Save(ctx, storage.KeyCart, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cart", slog.String("error", err.Error()))
	}
}
