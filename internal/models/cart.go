package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one product-quantity line in a cart. Name, Price and Image are
// captured from the product at add time so the cart (and any order snapshot
// taken from it) stays stable if the product record later changes.
type CartItem struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Cart holds the line items of exactly one shopper. It is created implicitly
// on the first add and deleted by a successful checkout.
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Item returns the line item with the given id, or nil.
func (c *Cart) Item(id primitive.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemByProduct returns the line item referencing the given product, or nil.
func (c *Cart) ItemByProduct(productID primitive.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RemoveItem deletes the line item with the given id. It reports whether an
// item was removed.
func (c *Cart) RemoveItem(id primitive.ObjectID) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// CartViewProduct is the live product slice of a denormalized cart line.
type CartViewProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Stock    int     `json:"stock"`
}

// CartViewItem joins a stored line item with the current state of the product
// it references. Product is nil when the product has been deleted.
type CartViewItem struct {
	ID       string           `json:"id"`
	Quantity int              `json:"quantity"`
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Image    string           `json:"image,omitempty"`
	Product  *CartViewProduct `json:"product"`
}

// CartView is the denormalized response shape for cart endpoints.
type CartView struct {
	ID    string         `json:"id"`
	Items []CartViewItem `json:"items"`
}
