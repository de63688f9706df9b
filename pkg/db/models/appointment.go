package models

import (
	"time"

	"github.com/ghazlapps/salon-backend/pkg/enums"
)

// Appointment is a booked visit for a customer on a given date.
type Appointment struct {
	ID         uint                    `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID uint                    `gorm:"column:customer_id;not null;index"`
	Date       string                  `gorm:"column:date;not null;index"`
	StartTime  string                  `gorm:"column:start_time;not null"`
	EndTime    string                  `gorm:"column:end_time;not null"`
	Status     enums.AppointmentStatus `gorm:"column:status;not null;index"`
	Notes      *string                 `gorm:"column:notes"`
	Services   []AppointmentService    `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// AppointmentService is one service line attached to an appointment.
type AppointmentService struct {
	ID            uint `gorm:"column:id;primaryKey;autoIncrement"`
	AppointmentID uint `gorm:"column:appointment_id;not null;index"`
	ServiceID     uint `gorm:"column:service_id;not null"`
	Quantity      int  `gorm:"column:quantity;not null;default:1"`
}
