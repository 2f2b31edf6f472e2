package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
)

// MemoryStore implements the repository interfaces with mutex-guarded maps.
// It backs local development without postgres and the unit/e2e tests.
type MemoryStore struct {
	mu        sync.RWMutex
	orders    map[string]*domain.Order
	users     map[string]*domain.User
	products  map[string]*domain.Product
	customers map[string]*domain.Customer
	profile   *domain.Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:    make(map[string]*domain.Order),
		users:     make(map[string]*domain.User),
		products:  make(map[string]*domain.Product),
		customers: make(map[string]*domain.Customer),
	}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}

func (s *MemoryStore) CreateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *MemoryStore) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		orders = append(orders, cloneOrder(order))
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *MemoryStore) ListOrdersByIDs(_ context.Context, ids []string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		if order, exists := s.orders[id]; exists {
			orders = append(orders, cloneOrder(order))
		}
	}
	return orders, nil
}

func (s *MemoryStore) UpdateOrder(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; !exists {
		return ErrOrderNotFound
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[id]; !exists {
		return ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// admins returns admin rows oldest-first, the deterministic order the sync
// guard's fallback relies on.
func (s *MemoryStore) admins() []*domain.User {
	var admins []*domain.User
	for _, user := range s.users {
		if user.Role == domain.RoleAdmin {
			admins = append(admins, user)
		}
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].CreatedAt.Before(admins[j].CreatedAt)
	})
	return admins
}

func (s *MemoryStore) GetAdminByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.admins() {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStore) GetFirstAdmin(_ context.Context) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admins := s.admins()
	if len(admins) == 0 {
		return nil, ErrUserNotFound
	}
	u := *admins[0]
	return &u, nil
}

func (s *MemoryStore) UpdateUserProfile(_ context.Context, id string, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[id]
	if !exists {
		return ErrUserNotFound
	}
	user.Name = profile.Name
	user.Email = profile.Email
	user.Avatar = profile.Avatar
	return nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *product
	s.products[product.ID] = &p
	return nil
}

func (s *MemoryStore) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	p := *product
	return &p, nil
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]*domain.Product, 0, len(s.products))
	for _, product := range s.products {
		p := *product
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[product.ID]; !exists {
		return ErrProductNotFound
	}
	p := *product
	s.products[product.ID] = &p
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) CreateCustomer(_ context.Context, customer *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *customer
	s.customers[customer.ID] = &c
	return nil
}

func (s *MemoryStore) GetCustomerByID(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customer, exists := s.customers[id]
	if !exists {
		return nil, ErrCustomerNotFound
	}
	c := *customer
	return &c, nil
}

func (s *MemoryStore) ListCustomers(_ context.Context) ([]*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	customers := make([]*domain.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		c := *customer
		customers = append(customers, &c)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(customers[j].CreatedAt)
	})
	return customers, nil
}

func (s *MemoryStore) UpdateCustomer(_ context.Context, customer *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.customers[customer.ID]; !exists {
		return ErrCustomerNotFound
	}
	c := *customer
	s.customers[customer.ID] = &c
	return nil
}

func (s *MemoryStore) DeleteCustomer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.customers[id]; !exists {
		return ErrCustomerNotFound
	}
	delete(s.customers, id)
	return nil
}

// GetProfile / SaveProfile let MemoryStore double as a SettingsRepository
// when mongo is not configured.
func (s *MemoryStore) GetProfile(_ context.Context) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, ErrProfileNotFound
	}
	p := *s.profile
	return &p, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &profile
	return nil
}
