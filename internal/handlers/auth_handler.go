package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// Registrar is the slice of the auth service this handler needs.
type Registrar interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
}

type AuthHandler struct {
	auth Registrar
	log  *logrus.Logger
}

func NewAuthHandler(auth Registrar, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"errors":  err.Error(),
		})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, apperr.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "User already exists"})
	case err != nil:
		internalError(c, h.log, "Failed to register user", err)
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message": "User created successfully",
			"user":    user.Summary(),
		})
	}
}
