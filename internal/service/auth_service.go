package service

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// AuthService handles shopper registration. Session issuance and login live
// in the external auth provider.
type AuthService struct {
	users UserStore
	cost  int
}

func NewAuthService(users UserStore, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, cost: bcryptCost}
}

// Register stores a new shopper account with a bcrypt password hash. A
// duplicate email fails with ErrDuplicateEmail whether it is caught by the
// pre-check or by the unique index on insert.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperr.ErrDuplicateEmail
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleShopper,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
