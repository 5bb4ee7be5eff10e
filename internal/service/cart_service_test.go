package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

func newTestProduct(name string, price float64, stock, reserved int) *models.Product {
	return &models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    price,
		Stock:    stock,
		Reserved: reserved,
		Category: "test",
		ImageURL: "https://img.example/" + name,
	}
}

func newTestCart(userID primitive.ObjectID, items ...models.CartItem) *models.Cart {
	return &models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items:  items,
	}
}

func lineFor(p *models.Product, qty int) models.CartItem {
	return models.CartItem{
		ID:        primitive.NewObjectID(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.ImageURL,
		Quantity:  qty,
	}
}

func TestAddCreatesCartAndReservesStock(t *testing.T) {
	product := newTestProduct("lamp", 25.0, 10, 0)
	products := newFakeProductStore(product)
	carts := newFakeCartStore()
	svc := NewCartService(carts, products, fakeTxn{})
	userID := primitive.NewObjectID()

	view, err := svc.Add(context.Background(), userID, product.ID.Hex(), 2)
	require.NoError(t, err)

	stored := products.get(product.ID)
	assert.Equal(t, 8, stored.Stock)
	assert.Equal(t, 2, stored.Reserved)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "lamp", view.Items[0].Name)
	assert.Equal(t, 25.0, view.Items[0].Price)
	assert.Equal(t, 2, view.Items[0].Quantity)
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, 8, view.Items[0].Product.Stock)

	assert.Equal(t, 1, carts.count())
}

func TestAddMergesExistingLine(t *testing.T) {
	product := newTestProduct("lamp", 25.0, 8, 2)
	products := newFakeProductStore(product)
	userID := primitive.NewObjectID()
	carts := newFakeCartStore(newTestCart(userID, lineFor(product, 2)))
	svc := NewCartService(carts, products, fakeTxn{})

	view, err := svc.Add(context.Background(), userID, product.ID.Hex(), 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, 5, products.get(product.ID).Stock)
	assert.Equal(t, 5, products.get(product.ID).Reserved)
}

func TestAddInsufficientStock(t *testing.T) {
	product := newTestProduct("lamp", 25.0, 1, 0)
	products := newFakeProductStore(product)
	carts := newFakeCartStore()
	svc := NewCartService(carts, products, fakeTxn{})

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), product.ID.Hex(), 2)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 1, products.get(product.ID).Stock)
	assert.Equal(t, 0, carts.count())
}

func TestAddUnknownProduct(t *testing.T) {
	svc := NewCartService(newFakeCartStore(), newFakeProductStore(), fakeTxn{})

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID().Hex(), 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateQuantityMovesStockByDelta(t *testing.T) {
	product := newTestProduct("mug", 8.0, 10, 2)
	products := newFakeProductStore(product)
	userID := primitive.NewObjectID()
	line := lineFor(product, 2)
	carts := newFakeCartStore(newTestCart(userID, line))
	svc := NewCartService(carts, products, fakeTxn{})

	// Grow 2 -> 5: three more units reserved.
	view, err := svc.UpdateQuantity(context.Background(), userID, line.ID.Hex(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Equal(t, 7, products.get(product.ID).Stock)
	assert.Equal(t, 5, products.get(product.ID).Reserved)

	// Shrink 5 -> 1: four units released.
	view, err = svc.UpdateQuantity(context.Background(), userID, line.ID.Hex(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.Equal(t, 11, products.get(product.ID).Stock)
	assert.Equal(t, 1, products.get(product.ID).Reserved)
}

func TestUpdateQuantityInsufficientStock(t *testing.T) {
	product := newTestProduct("mug", 8.0, 1, 2)
	products := newFakeProductStore(product)
	userID := primitive.NewObjectID()
	line := lineFor(product, 2)
	carts := newFakeCartStore(newTestCart(userID, line))
	svc := NewCartService(carts, products, fakeTxn{})

	_, err := svc.UpdateQuantity(context.Background(), userID, line.ID.Hex(), 5)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// Nothing moved.
	assert.Equal(t, 1, products.get(product.ID).Stock)
	assert.Equal(t, 2, products.get(product.ID).Reserved)
	cart, err := carts.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateQuantityRejectsBelowOne(t *testing.T) {
	svc := NewCartService(newFakeCartStore(), newFakeProductStore(), fakeTxn{})

	_, err := svc.UpdateQuantity(context.Background(), primitive.NewObjectID(), primitive.NewObjectID().Hex(), 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
}

func TestUpdateQuantityItemNotFound(t *testing.T) {
	userID := primitive.NewObjectID()
	carts := newFakeCartStore(newTestCart(userID))
	svc := NewCartService(carts, newFakeProductStore(), fakeTxn{})

	_, err := svc.UpdateQuantity(context.Background(), userID, primitive.NewObjectID().Hex(), 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveRestoresStock(t *testing.T) {
	product := newTestProduct("desk", 120.0, 4, 3)
	products := newFakeProductStore(product)
	userID := primitive.NewObjectID()
	line := lineFor(product, 3)
	carts := newFakeCartStore(newTestCart(userID, line))
	svc := NewCartService(carts, products, fakeTxn{})

	view, err := svc.Remove(context.Background(), userID, line.ID.Hex())
	require.NoError(t, err)

	assert.Empty(t, view.Items)
	assert.Equal(t, 7, products.get(product.ID).Stock)
	assert.Equal(t, 0, products.get(product.ID).Reserved)
}

func TestRemoveItemNotFound(t *testing.T) {
	userID := primitive.NewObjectID()
	carts := newFakeCartStore(newTestCart(userID))
	svc := NewCartService(carts, newFakeProductStore(), fakeTxn{})

	_, err := svc.Remove(context.Background(), userID, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestViewWithoutCart(t *testing.T) {
	svc := NewCartService(newFakeCartStore(), newFakeProductStore(), fakeTxn{})

	view, err := svc.View(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
