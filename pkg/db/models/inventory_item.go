package models

import "time"

// InventoryItem holds the current stock level for exactly one product. The
// quantity is only ever mutated through the inventory ledger, which keeps it
// non-negative and equal to the sum of the product's log entries.
type InventoryItem struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
