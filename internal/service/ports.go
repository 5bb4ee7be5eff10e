// Package service holds the storefront's business logic: cart mutation with
// stock reservation, checkout, registration, and the denormalized cart view.
// Storage is reached through the narrow interfaces below so the logic can be
// tested against in-memory fakes.
package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// ProductStore is the slice of the product repository the services need.
type ProductStore interface {
	Find(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error)
	Reserve(ctx context.Context, id primitive.ObjectID, qty int) error
	Release(ctx context.Context, id primitive.ObjectID, qty int) error
	ConsumeReserved(ctx context.Context, id primitive.ObjectID, qty int) error
}

// CartStore persists shopper carts.
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderStore persists finalized orders.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
}

// UserStore persists registered accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Transactor runs a function inside one database transaction. Every service
// operation that writes more than one document goes through it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
