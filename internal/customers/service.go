package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/db/models"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
)

// Service exposes customer record management.
type Service interface {
	Create(ctx context.Context, input Input) (*models.Customer, error)
	Update(ctx context.Context, id uint, input Input) (*models.Customer, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Search(ctx context.Context, query string) ([]models.Customer, error)
}

// Input captures the writable fields of a customer.
type Input struct {
	Name  string
	Phone string
	Email *string
	Notes *string
}

type service struct {
	repo Repository
}

// NewService wires the customer service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	customer := &models.Customer{
		Name:  strings.TrimSpace(input.Name),
		Phone: strings.TrimSpace(input.Phone),
		Email: input.Email,
		Notes: input.Notes,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating customer")
	}
	return customer, nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*models.Customer, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = strings.TrimSpace(input.Name)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Email = input.Email
	customer.Notes = input.Notes
	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating customer")
	}
	return customer, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting customer")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("customer %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing customers")
	}
	return customers, nil
}

func (s *service) Search(ctx context.Context, query string) ([]models.Customer, error) {
	if strings.TrimSpace(query) == "" {
		return s.List(ctx)
	}
	customers, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "searching customers")
	}
	return customers, nil
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	return nil
}
