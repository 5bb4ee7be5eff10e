package service

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

const defaultMaxConcurrent = 10

// CheckoutService converts a cart into an order. The pre-check fans out over
// the cart's products concurrently; the conversion itself — consume the
// reservations, insert the order, delete the cart — is one transaction, so a
// duplicate submission finds no cart instead of creating a second order.
type CheckoutService struct {
	carts    CartStore
	products ProductStore
	orders   OrderStore
	tx       Transactor

	maxConcurrent int
}

func NewCheckoutService(carts CartStore, products ProductStore, orders OrderStore, tx Transactor) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		products:      products,
		orders:        orders,
		tx:            tx,
		maxConcurrent: defaultMaxConcurrent,
	}
}

// Checkout creates a pending order from the shopper's cart. The total uses
// the cart's cached prices, not the live product prices: the shopper pays
// what the cart showed.
func (s *CheckoutService) Checkout(ctx context.Context, userID primitive.ObjectID, address models.ShippingAddress) (*models.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	if err := s.verify(ctx, cart); err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		Items:           make([]models.OrderItem, 0, len(cart.Items)),
		ShippingAddress: address,
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
		order.TotalAmount += item.Price * float64(item.Quantity)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		for _, item := range cart.Items {
			if err := s.products.ConsumeReserved(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		return s.carts.Delete(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// verify re-reads every product and confirms its reservation covers the
// line. The reads are independent, so they fan out with a bounded group;
// the authoritative check is the conditional consume inside the
// transaction, this pass just fails fast with the product's name.
func (s *CheckoutService) verify(ctx context.Context, cart *models.Cart) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i := range cart.Items {
		item := cart.Items[i]
		g.Go(func() error {
			product, err := s.products.Find(ctx, item.ProductID)
			if errors.Is(err, apperr.ErrNotFound) {
				return &apperr.InsufficientStockError{Product: item.Name}
			}
			if err != nil {
				return errors.Wrapf(err, "verify product %s", item.ProductID.Hex())
			}
			if product.Reserved < item.Quantity {
				return &apperr.InsufficientStockError{Product: product.Name}
			}
			return nil
		})
	}
	return g.Wait()
}
