package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/domain"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/feed"
	"github.com/HafidzAlaziz/dashboard-sample-sub000/internal/repository"
)

// CatalogService covers the product and customer tables. Both are tracked
// by the change feed, so every successful write publishes one event.
type CatalogService struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	bus       feed.Bus
}

func NewCatalogService(products repository.ProductRepository, customers repository.CustomerRepository, bus feed.Bus) *CatalogService {
	return &CatalogService{products: products, customers: customers, bus: bus}
}

func (s *CatalogService) CreateProduct(ctx context.Context, name string, price int64, image string, stock int) (*domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}

	now := time.Now()
	product := &domain.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		Image:     image,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publishRow(feed.EventCreated, feed.TableProducts, product)
	return product, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.UpdatedAt = time.Now()
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.publishRow(feed.EventUpdated, feed.TableProducts, product)
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.publishRow(feed.EventDeleted, feed.TableProducts, product)
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetProductByID(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *CatalogService) CreateCustomer(ctx context.Context, name, phone, address string) (*domain.Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	now := time.Now()
	customer := &domain.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     phone,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.customers.CreateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.publishRow(feed.EventCreated, feed.TableCustomers, customer)
	return customer, nil
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	customer.UpdatedAt = time.Now()
	if err := s.customers.UpdateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	s.publishRow(feed.EventUpdated, feed.TableCustomers, customer)
	return customer, nil
}

func (s *CatalogService) DeleteCustomer(ctx context.Context, id string) error {
	customer, err := s.customers.GetCustomerByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.customers.DeleteCustomer(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	s.publishRow(feed.EventDeleted, feed.TableCustomers, customer)
	return nil
}

func (s *CatalogService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetCustomerByID(ctx, id)
}

func (s *CatalogService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.customers.ListCustomers(ctx)
}

func (s *CatalogService) publishRow(kind feed.EventKind, table string, row any) {
	evt, err := feed.NewEvent(kind, table, row)
	if err != nil {
		log.Printf("catalog: failed to build %s event for %s: %v", kind, table, err)
		return
	}
	s.bus.Publish(evt)
}
