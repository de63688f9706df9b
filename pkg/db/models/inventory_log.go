package models

import (
	"time"

	"github.com/ghazlapps/salon-backend/pkg/enums"
)

// InventoryLog is one immutable entry in the append-only stock audit trail.
// Rows are never updated or deleted; the running sum of ChangeAmount per
// product derives that product's current quantity from zero.
type InventoryLog struct {
	ID           uint                     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID    uint                     `gorm:"column:product_id;not null;index"`
	ChangeAmount int                      `gorm:"column:change_amount;not null"`
	Reason       enums.InventoryLogReason `gorm:"column:reason;not null"`
	ReceiptID    *uint                    `gorm:"column:receipt_id;index"`
	Note         *string                  `gorm:"column:note"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime;index"`
}
