package appointments

import (
	"context"

	"github.com/ghazlapps/salon-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for appointments and their service lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, appointment *models.Appointment) error
	Save(ctx context.Context, appointment *models.Appointment) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	ListByCustomerID(ctx context.Context, customerID uint) ([]models.Appointment, error)
	ListByDate(ctx context.Context, date string) ([]models.Appointment, error)
	ReplaceServices(ctx context.Context, appointmentID uint, lines []models.AppointmentService) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an appointment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *repository) Save(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Omit("Services").Save(appointment).Error
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("appointment_id = ?", id).Delete(&models.AppointmentService{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Appointment{}).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *repository) ListByCustomerID(ctx context.Context, customerID uint) ([]models.Appointment, error) {
	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("customer_id = ?", customerID).
		Order("date DESC, start_time DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	var rows []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("date = ?", date).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceServices swaps the appointment's service lines wholesale.
func (r *repository) ReplaceServices(ctx context.Context, appointmentID uint, lines []models.AppointmentService) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("appointment_id = ?", appointmentID).Delete(&models.AppointmentService{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return tx.Create(&lines).Error
}
