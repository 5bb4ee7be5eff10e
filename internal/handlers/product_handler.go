package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/models"
)

// ProductRepo is the slice of the product repository the handler needs.
type ProductRepo interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindAll(ctx context.Context, page, pageSize int, category string) ([]*models.Product, int64, error)
	Update(ctx context.Context, id string, update bson.M) error
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	repo  ProductRepo
	cache *cache.Cache
	log   *logrus.Logger
}

func NewProductHandler(repo ProductRepo, cache *cache.Cache, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{repo: repo, cache: cache, log: log}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	if err := h.repo.Create(c.Request.Context(), &product); err != nil {
		internalError(c, h.log, "Failed to create product", err)
		return
	}

	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusCreated, product)
}

// List handles GET /api/products with optional pagination and category
// filter. Responses are cached briefly; any product write invalidates.
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	category := c.Query("category")

	cacheKey := fmt.Sprintf("products:list:p%d_s%d_cat:%s", page, pageSize, category)
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, err := h.repo.FindAll(c.Request.Context(), page, pageSize, category)
	if err != nil {
		internalError(c, h.log, "Failed to fetch products", err)
		return
	}

	response := gin.H{
		"data":  products,
		"total": total,
	}
	h.cache.Set(cacheKey, response, 2*time.Minute)
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")
	cacheKey := "product:" + id

	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.repo.FindByID(c.Request.Context(), id)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Product not found"})
	case err != nil:
		internalError(c, h.log, "Failed to fetch product", err)
	default:
		h.cache.Set(cacheKey, product)
		c.JSON(http.StatusOK, product)
	}
}

// Update handles PUT /api/products/:id with a partial body.
func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	updateMap := bson.M{}
	if update.Name != nil {
		updateMap["name"] = *update.Name
	}
	if update.Price != nil {
		updateMap["price"] = *update.Price
	}
	if update.Stock != nil {
		updateMap["stock"] = *update.Stock
	}
	if update.Category != nil {
		updateMap["category"] = *update.Category
	}
	if update.Description != nil {
		updateMap["description"] = *update.Description
	}
	if update.ImageURL != nil {
		updateMap["image_url"] = *update.ImageURL
	}
	if len(updateMap) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "no valid fields to update"})
		return
	}

	err := h.repo.Update(c.Request.Context(), id, updateMap)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Product not found"})
	case err != nil:
		internalError(c, h.log, "Failed to update product", err)
	default:
		h.cache.Delete("product:" + id)
		h.cache.DeleteByPrefix("products:list:")
		c.JSON(http.StatusOK, MessageResponse{Message: "product updated"})
	}
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.repo.Delete(c.Request.Context(), id)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Product not found"})
	case err != nil:
		internalError(c, h.log, "Failed to delete product", err)
	default:
		h.cache.Delete("product:" + id)
		h.cache.DeleteByPrefix("products:list:")
		c.JSON(http.StatusOK, MessageResponse{Message: "Product deleted"})
	}
}
