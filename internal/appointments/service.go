package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/ghazlapps/salon-backend/internal/customers"
	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/db/models"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes appointment scheduling.
type Service interface {
	Create(ctx context.Context, input Input) (*models.Appointment, error)
	Update(ctx context.Context, id uint, input Input) (*models.Appointment, error)
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	ListByCustomerID(ctx context.Context, customerID uint) ([]models.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]models.Appointment, error)
}

// ServiceLine attaches one salon service to an appointment.
type ServiceLine struct {
	ServiceID uint
	Quantity  int
}

// Input captures the writable fields of an appointment.
type Input struct {
	CustomerID uint
	Date       string
	StartTime  string
	EndTime    string
	Status     enums.AppointmentStatus
	Notes      *string
	Services   []ServiceLine
}

type service struct {
	tx           txRunner
	repo         Repository
	customerRepo customers.Repository
}

// NewService wires the appointment service.
func NewService(tx txRunner, repo Repository, customerRepo customers.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("appointment repository required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{tx: tx, repo: repo, customerRepo: customerRepo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Appointment, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		CustomerID: input.CustomerID,
		Date:       input.Date,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Status:     input.Status,
		Notes:      input.Notes,
		Services:   serviceLines(0, input.Services),
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating appointment")
	}
	return appointment, nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*models.Appointment, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	appointment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appointment.CustomerID = input.CustomerID
	appointment.Date = input.Date
	appointment.StartTime = input.StartTime
	appointment.EndTime = input.EndTime
	appointment.Status = input.Status
	appointment.Notes = input.Notes

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Save(ctx, appointment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating appointment")
		}
		if err := repo.ReplaceServices(ctx, id, serviceLines(id, input.Services)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "replacing appointment services")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "deleting appointment")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	if id == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("appointment %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading appointment")
	}
	return appointment, nil
}

func (s *service) ListByCustomerID(ctx context.Context, customerID uint) ([]models.Appointment, error) {
	if customerID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	rows, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing appointments")
	}
	return rows, nil
}

func (s *service) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	rows, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing appointments")
	}
	return rows, nil
}

func (s *service) validate(ctx context.Context, input Input) error {
	if input.CustomerID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	if input.StartTime == "" || input.EndTime == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end times required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid appointment status %q", input.Status))
	}
	for i, line := range input.Services {
		if line.ServiceID == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("service line %d: service id required", i))
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("service line %d: quantity must be at least 1", i))
		}
	}

	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("customer %d not found", input.CustomerID))
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading customer")
	}
	return nil
}

func serviceLines(appointmentID uint, lines []ServiceLine) []models.AppointmentService {
	out := make([]models.AppointmentService, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.AppointmentService{
			AppointmentID: appointmentID,
			ServiceID:     line.ServiceID,
			Quantity:      line.Quantity,
		})
	}
	return out
}
