package repository

import (
	"context"
	"errors"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProfileNotFound  = errors.New("profile not set")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the single source of truth for orders. Same-row writes
// are serialized by the storage layer; last write wins, no version check.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	// ListOrdersByIDs is the batched existence query used by buyer-side
	// reconciliation: it returns only the rows that still exist, without
	// erroring on absent ids.
	ListOrdersByIDs(ctx context.Context, ids []string) ([]*domain.Order, error)
	UpdateOrder(ctx context.Context, order *domain.Order) error
	DeleteOrder(ctx context.Context, id string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetAdminByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetFirstAdmin returns a deterministic single admin row (oldest
	// first) for the sync guard's fallback path.
	GetFirstAdmin(ctx context.Context) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, id string, profile domain.Profile) error
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

// SettingsRepository holds the editable profile surface (a document, not a
// row; backed by mongo in production).
type SettingsRepository interface {
	GetProfile(ctx context.Context) (*domain.Profile, error)
	SaveProfile(ctx context.Context, profile domain.Profile) error
}
