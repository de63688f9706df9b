package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is a committed sale. Immutable once created.
type Receipt struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID    uint            `gorm:"column:customer_id;not null;index"`
	AppointmentID *uint           `gorm:"column:appointment_id;index"`
	Timestamp     time.Time       `gorm:"column:timestamp;not null;index"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:decimal(10,2);not null"`
	Tip           decimal.Decimal `gorm:"column:tip;type:decimal(10,2);not null"`
	Total         decimal.Decimal `gorm:"column:total;type:decimal(10,2);not null"`
	Items         []ReceiptItem   `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
