package service

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

// In-memory stores mirroring the repository contracts, including the
// conditional stock moves.

type fakeProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore(products ...*models.Product) *fakeProductStore {
	s := &fakeProductStore{products: make(map[primitive.ObjectID]*models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeProductStore) Find(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := make(map[primitive.ObjectID]*models.Product)
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			cp := *p
			byID[id] = &cp
		}
	}
	return byID, nil
}

func (s *fakeProductStore) Reserve(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if p.Stock < qty {
		return &apperr.InsufficientStockError{Product: p.Name}
	}
	p.Stock -= qty
	p.Reserved += qty
	return nil
}

func (s *fakeProductStore) Release(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil
	}
	p.Stock += qty
	p.Reserved -= qty
	return nil
}

func (s *fakeProductStore) ConsumeReserved(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if p.Reserved < qty {
		return &apperr.InsufficientStockError{Product: p.Name}
	}
	p.Reserved -= qty
	return nil
}

func (s *fakeProductStore) get(id primitive.ObjectID) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id]
}

type fakeCartStore struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*models.Cart // keyed by cart id
}

func newFakeCartStore(carts ...*models.Cart) *fakeCartStore {
	s := &fakeCartStore{carts: make(map[primitive.ObjectID]*models.Cart)}
	for _, c := range carts {
		s.carts[c.ID] = c
	}
	return s
}

func (s *fakeCartStore) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.carts {
		if c.UserID == userID {
			cp := *c
			cp.Items = append([]models.CartItem(nil), c.Items...)
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *fakeCartStore) Create(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart.ID = primitive.NewObjectID()
	stored := *cart
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	s.carts[cart.ID] = &stored
	return nil
}

func (s *fakeCartStore) Save(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[cart.ID]; !ok {
		return apperr.ErrNotFound
	}
	stored := *cart
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	s.carts[cart.ID] = &stored
	return nil
}

func (s *fakeCartStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.carts, id)
	return nil
}

func (s *fakeCartStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*models.Order
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = primitive.NewObjectID()
	order.Status = models.OrderPending
	s.orders = append(s.orders, order)
	return nil
}

func (s *fakeOrderStore) all() []*models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Order(nil), s.orders...)
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return apperr.ErrDuplicateEmail
	}
	user.ID = primitive.NewObjectID()
	s.users[user.Email] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return u, nil
}

// fakeTxn runs the callback directly; transactional behavior itself is the
// database's job.
type fakeTxn struct{}

func (fakeTxn) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
