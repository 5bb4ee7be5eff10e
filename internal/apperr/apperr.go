// Package apperr defines the domain error taxonomy shared by repositories,
// services and handlers. Handlers classify failures with errors.Is and map
// them to HTTP statuses; anything unclassified collapses to a generic 500.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing products, carts, cart items and orders.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail signals a registration against an existing account.
	ErrDuplicateEmail = errors.New("user already exists")

	// ErrEmptyCart signals a checkout against a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInsufficientStock signals a reservation or checkout the product's
	// stock cannot cover.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity signals a cart quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrUnauthorized signals a missing or wrong-role session.
	ErrUnauthorized = errors.New("unauthorized")
)

// InsufficientStockError names the product that could not be covered. It
// matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Product string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Product)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
