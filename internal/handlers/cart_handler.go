package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

// CartManager is the slice of the cart service this handler needs.
type CartManager interface {
	Add(ctx context.Context, userID primitive.ObjectID, productID string, qty int) (*models.CartView, error)
	UpdateQuantity(ctx context.Context, userID primitive.ObjectID, itemID string, qty int) (*models.CartView, error)
	Remove(ctx context.Context, userID primitive.ObjectID, itemID string) (*models.CartView, error)
	View(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error)
}

type CartHandler struct {
	cart CartManager
	log  *logrus.Logger
}

func NewCartHandler(cart CartManager, log *logrus.Logger) *CartHandler {
	return &CartHandler{cart: cart, log: log}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	userID, _ := middleware.SessionUserID(c)

	view, err := h.cart.View(c.Request.Context(), userID)
	if err != nil {
		internalError(c, h.log, "Failed to fetch cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(c *gin.Context) {
	userID, _ := middleware.SessionUserID(c)

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := h.cart.Add(c.Request.Context(), userID, req.ProductID, req.Quantity)
	h.respond(c, view, err, "Failed to add to cart", "Product not found")
}

// Update handles PUT /api/cart/:itemId.
func (h *CartHandler) Update(c *gin.Context) {
	userID, _ := middleware.SessionUserID(c)

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	view, err := h.cart.UpdateQuantity(c.Request.Context(), userID, c.Param("itemId"), req.Quantity)
	h.respond(c, view, err, "Failed to update cart", "Item not found")
}

// Remove handles DELETE /api/cart/:itemId.
func (h *CartHandler) Remove(c *gin.Context) {
	userID, _ := middleware.SessionUserID(c)

	view, err := h.cart.Remove(c.Request.Context(), userID, c.Param("itemId"))
	h.respond(c, view, err, "Failed to remove item", "Item not found")
}

func (h *CartHandler) respond(c *gin.Context, view *models.CartView, err error, failMsg, notFoundMsg string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: notFoundMsg})
	case errors.Is(err, apperr.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, apperr.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case err != nil:
		internalError(c, h.log, failMsg, err)
	default:
		c.JSON(http.StatusOK, view)
	}
}
