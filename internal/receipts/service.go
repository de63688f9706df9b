package receipts

import (
	"context"
	"fmt"

	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/db/models"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
)

// Service exposes the receipt-history read side. Receipt creation happens
// only through checkout.
type Service interface {
	GetByID(ctx context.Context, id uint) (*models.Receipt, error)
	ListByCustomerID(ctx context.Context, customerID uint) ([]models.Receipt, error)
	List(ctx context.Context) ([]models.Receipt, error)
}

type service struct {
	repo Repository
}

// NewService wires the receipt read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Receipt, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt id required")
	}
	receipt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("receipt %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading receipt")
	}
	return receipt, nil
}

func (s *service) ListByCustomerID(ctx context.Context, customerID uint) ([]models.Receipt, error) {
	if customerID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	rows, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing receipts")
	}
	return rows, nil
}

func (s *service) List(ctx context.Context) ([]models.Receipt, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing receipts")
	}
	return rows, nil
}
