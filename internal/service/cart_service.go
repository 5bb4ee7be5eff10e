package service

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// CartService implements cart mutation with stock reservation. Adding or
// increasing a line moves units from a product's available stock into its
// reservation; decreasing or removing moves them back. Each mutation touches
// a cart document and a product document, so it runs inside a transaction.
type CartService struct {
	carts    CartStore
	products ProductStore
	tx       Transactor
}

func NewCartService(carts CartStore, products ProductStore, tx Transactor) *CartService {
	return &CartService{carts: carts, products: products, tx: tx}
}

// Add puts qty units of a product into the shopper's cart, creating the cart
// on first use. An existing line for the same product grows instead of
// duplicating. The line caches the product's name, price and image at add
// time.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, productID string, qty int) (*models.CartView, error) {
	if qty < 1 {
		return nil, apperr.ErrInvalidQuantity
	}
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	var cart *models.Cart
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := s.products.Find(ctx, pid)
		if err != nil {
			return err
		}
		if err := s.products.Reserve(ctx, pid, qty); err != nil {
			return err
		}

		cart, err = s.carts.FindByUser(ctx, userID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			cart = &models.Cart{UserID: userID}
		case err != nil:
			return err
		}

		if line := cart.ItemByProduct(pid); line != nil {
			line.Quantity += qty
		} else {
			cart.Items = append(cart.Items, models.CartItem{
				ID:        primitive.NewObjectID(),
				ProductID: pid,
				Name:      product.Name,
				Price:     product.Price,
				Image:     product.ImageURL,
				Quantity:  qty,
			})
		}

		if cart.ID.IsZero() {
			return s.carts.Create(ctx, cart)
		}
		return s.carts.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// UpdateQuantity sets a line item to a new quantity. Growing the line
// reserves the difference (and fails with the insufficient-stock error when
// available stock cannot cover it); shrinking releases it.
func (s *CartService) UpdateQuantity(ctx context.Context, userID primitive.ObjectID, itemID string, qty int) (*models.CartView, error) {
	if qty < 1 {
		return nil, apperr.ErrInvalidQuantity
	}
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	var cart *models.Cart
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err = s.carts.FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		item := cart.Item(id)
		if item == nil {
			return apperr.ErrNotFound
		}

		delta := qty - item.Quantity
		switch {
		case delta > 0:
			if err := s.products.Reserve(ctx, item.ProductID, delta); err != nil {
				return err
			}
		case delta < 0:
			if err := s.products.Release(ctx, item.ProductID, -delta); err != nil {
				return err
			}
		}

		item.Quantity = qty
		return s.carts.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// Remove deletes a line item and releases its full reserved quantity.
func (s *CartService) Remove(ctx context.Context, userID primitive.ObjectID, itemID string) (*models.CartView, error) {
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	var cart *models.Cart
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		cart, err = s.carts.FindByUser(ctx, userID)
		if err != nil {
			return err
		}
		item := cart.Item(id)
		if item == nil {
			return apperr.ErrNotFound
		}

		if err := s.products.Release(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
		cart.RemoveItem(id)
		return s.carts.Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// View returns the shopper's denormalized cart, or an empty shape when no
// cart exists yet.
func (s *CartService) View(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return EmptyCartView(), nil
	}
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}
