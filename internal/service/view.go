package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// BuildCartView joins stored line items with the current product records.
// It is a pure projection: the cached name/price/image come from the line
// item, the live price/stock from the product, and a deleted product leaves
// a nil Product on the line rather than dropping it.
func BuildCartView(cart *models.Cart, products map[primitive.ObjectID]*models.Product) *models.CartView {
	view := &models.CartView{
		ID:    cart.ID.Hex(),
		Items: make([]models.CartViewItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		line := models.CartViewItem{
			ID:       item.ID.Hex(),
			Quantity: item.Quantity,
			Name:     item.Name,
			Price:    item.Price,
			Image:    item.Image,
		}
		if p, ok := products[item.ProductID]; ok {
			line.Product = &models.CartViewProduct{
				ID:       p.ID.Hex(),
				Name:     p.Name,
				Price:    p.Price,
				ImageURL: p.ImageURL,
				Stock:    p.Stock,
			}
		}
		view.Items = append(view.Items, line)
	}
	return view
}

// EmptyCartView is the shape returned when the shopper has no cart.
func EmptyCartView() *models.CartView {
	return &models.CartView{Items: []models.CartViewItem{}}
}

func (s *CartService) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return BuildCartView(cart, products), nil
}
