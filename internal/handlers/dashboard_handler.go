package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Products with stock below this count as "low stock" on the dashboard.
const lowStockThreshold = 10

// ProductCounter counts products, optionally restricted to stock strictly
// below a threshold (negative means no restriction).
type ProductCounter interface {
	Count(ctx context.Context, stockBelow int) (int64, error)
}

// OrderStats summarizes the order collection.
type OrderStats interface {
	Count(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

type DashboardHandler struct {
	products ProductCounter
	orders   OrderStats
	log      *logrus.Logger
}

func NewDashboardHandler(products ProductCounter, orders OrderStats, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{products: products, orders: orders, log: log}
}

type dashboardSummary struct {
	ProductCount  int64   `json:"productCount"`
	LowStockCount int64   `json:"lowStockCount"`
	InStockCount  int64   `json:"inStockCount"`
	OrderCount    int64   `json:"orderCount"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// Summary handles GET /api/dashboard/summary.
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	productCount, err := h.products.Count(ctx, -1)
	if err != nil {
		internalError(c, h.log, "Failed to build summary", err)
		return
	}
	lowStock, err := h.products.Count(ctx, lowStockThreshold)
	if err != nil {
		internalError(c, h.log, "Failed to build summary", err)
		return
	}
	orderCount, err := h.orders.Count(ctx)
	if err != nil {
		internalError(c, h.log, "Failed to build summary", err)
		return
	}
	revenue, err := h.orders.TotalRevenue(ctx)
	if err != nil {
		internalError(c, h.log, "Failed to build summary", err)
		return
	}

	c.JSON(http.StatusOK, dashboardSummary{
		ProductCount:  productCount,
		LowStockCount: lowStock,
		InStockCount:  productCount - lowStock,
		OrderCount:    orderCount,
		TotalRevenue:  revenue,
	})
}
