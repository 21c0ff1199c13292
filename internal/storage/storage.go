// Package storage provides the durable client-side key-value store backing
// the cart and session stores. It is the Go equivalent of browser local
// storage: a handful of fixed keys whose values survive restarts.
package storage

import "context"

// Fixed storage keys. Cart and the two session stores each own one key;
// they are never shared.
const (
	KeyCart       = "cart"
	KeyUserToken  = "user_token"
	KeyAdminToken = "admin_token"
)

// Store defines the interface for durable key-value persistence.
type Store interface {
	// Load retrieves the value for a key. Returns an error wrapping
	// errors.ErrNotFound when the key is absent.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save persists a value under a key, overwriting any existing value.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
