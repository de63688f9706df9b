package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghazlapps/salon-backend/internal/inventory"
	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/db/models"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog management for products and salon services.
// Product creation seeds the product's inventory record in the same
// transaction, so a product can never exist without a stock row.
type Service interface {
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateService(ctx context.Context, input ServiceInput) (*models.Service, error)
	UpdateService(ctx context.Context, id uint, input ServiceInput) (*models.Service, error)
	DeleteService(ctx context.Context, id uint) error
	ListServices(ctx context.Context) ([]models.Service, error)
}

// ProductInput captures the writable fields of a product.
type ProductInput struct {
	Name              string
	SKU               *string
	Price             decimal.Decimal
	MinStockThreshold int
}

// ServiceInput captures the writable fields of a salon service.
type ServiceInput struct {
	Name  string
	Price decimal.Decimal
}

type service struct {
	tx       txRunner
	repo     Repository
	invRepo  inventory.Repository
}

// NewService wires the catalog service.
func NewService(tx txRunner, repo Repository, invRepo inventory.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if invRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{tx: tx, repo: repo, invRepo: invRepo}, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	key := nameKey(input.Name)
	if err := s.ensureNameFree(ctx, key, 0); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:              strings.TrimSpace(input.Name),
		NameKey:           key,
		SKU:               input.SKU,
		Price:             input.Price,
		MinStockThreshold: input.MinStockThreshold,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "name_key") {
				return duplicateNameError(input.Name)
			}
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating product")
		}
		item := &models.InventoryItem{ProductID: product.ID, Quantity: 0}
		if err := s.invRepo.WithTx(tx).CreateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "seeding inventory record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading product")
	}

	key := nameKey(input.Name)
	if err := s.ensureNameFree(ctx, key, id); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.NameKey = key
	product.SKU = input.SKU
	product.Price = input.Price
	product.MinStockThreshold = input.MinStockThreshold

	if err := s.repo.SaveProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "name_key") {
			return nil, duplicateNameError(input.Name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating product")
	}
	return product, nil
}

// DeleteProduct removes the product and its inventory record. Inventory log
// entries are kept: the audit history outlives the product.
func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	if id == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading product")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.invRepo.WithTx(tx).DeleteByProductID(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting inventory record")
		}
		if err := s.repo.WithTx(tx).DeleteProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting product")
		}
		return nil
	})
}

func (s *service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing products")
	}
	return products, nil
}

func (s *service) CreateService(ctx context.Context, input ServiceInput) (*models.Service, error) {
	if err := validateServiceInput(input); err != nil {
		return nil, err
	}
	svc := &models.Service{
		Name:  strings.TrimSpace(input.Name),
		Price: input.Price,
	}
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating service")
	}
	return svc, nil
}

func (s *service) UpdateService(ctx context.Context, id uint, input ServiceInput) (*models.Service, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	if err := validateServiceInput(input); err != nil {
		return nil, err
	}
	svc, err := s.repo.FindServiceByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("service %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading service")
	}
	svc.Name = strings.TrimSpace(input.Name)
	svc.Price = input.Price
	if err := s.repo.SaveService(ctx, svc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating service")
	}
	return svc, nil
}

func (s *service) DeleteService(ctx context.Context, id uint) error {
	if id == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "service id required")
	}
	if _, err := s.repo.FindServiceByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("service %d not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading service")
	}
	if err := s.repo.DeleteService(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting service")
	}
	return nil
}

func (s *service) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing services")
	}
	return services, nil
}

// ensureNameFree rejects a normalized name already claimed by a different
// product. The unique index on name_key backstops the race between check and
// write.
func (s *service) ensureNameFree(ctx context.Context, key string, selfID uint) error {
	existing, err := s.repo.FindProductByNameKey(ctx, key)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "checking product name")
	}
	if existing.ID == selfID {
		return nil
	}
	return duplicateNameError(existing.Name)
}

func duplicateNameError(name string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDuplicateName,
		fmt.Sprintf("a product named %q already exists", strings.TrimSpace(name))).
		WithDetails(map[string]string{"name": strings.TrimSpace(name)})
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}
	if input.MinStockThreshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum stock threshold must not be negative")
	}
	return nil
}

func validateServiceInput(input ServiceInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "service name required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "service price must not be negative")
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
