package models

import (
	"github.com/ghazlapps/salon-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ReceiptItem is one line of a receipt. Name and unit price are captured at
// the time of sale and stay fixed through later catalog edits.
type ReceiptItem struct {
	ID        uint                  `gorm:"column:id;primaryKey;autoIncrement"`
	ReceiptID uint                  `gorm:"column:receipt_id;not null;index"`
	ItemKind  enums.ReceiptItemKind `gorm:"column:item_kind;not null"`
	ItemID    uint                  `gorm:"column:item_id;not null"`
	Name      string                `gorm:"column:name;not null"`
	Quantity  int                   `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal       `gorm:"column:unit_price;type:decimal(10,2);not null"`
	LineTotal decimal.Decimal       `gorm:"column:line_total;type:decimal(10,2);not null"`
}
