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

// CheckoutService converts the session's cart into an order.
type CheckoutService interface {
	Checkout(ctx context.Context, userID primitive.ObjectID, address models.ShippingAddress) (*models.Order, error)
}

// OrderRepo lists stored orders.
type OrderRepo interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error)
	FindAll(ctx context.Context) ([]*models.Order, error)
}

type OrderHandler struct {
	checkout CheckoutService
	orders   OrderRepo
	log      *logrus.Logger
}

func NewOrderHandler(checkout CheckoutService, orders OrderRepo, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, log: log}
}

type createOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
}

// List handles GET /api/orders. Shoppers see their own orders; admins see
// everything.
func (h *OrderHandler) List(c *gin.Context) {
	userID, _ := middleware.SessionUserID(c)

	var (
		orders []*models.Order
		err    error
	)
	if middleware.SessionRole(c) == models.RoleAdmin {
		orders, err = h.orders.FindAll(c.Request.Context())
	} else {
		orders, err = h.orders.FindByUser(c.Request.Context(), userID)
	}
	if err != nil {
		internalError(c, h.log, "Failed to fetch orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Create handles POST /api/orders. A missing cart reads as empty: either the
// shopper never added anything or a previous checkout already consumed it.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, _ := middleware.SessionUserID(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), userID, req.ShippingAddress)
	switch {
	case errors.Is(err, apperr.ErrEmptyCart), errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Cart is empty"})
	case errors.Is(err, apperr.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case err != nil:
		internalError(c, h.log, "Failed to create order", err)
	default:
		c.JSON(http.StatusCreated, order)
	}
}
