package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a retail catalog entry. NameKey holds the trimmed, lowercased
// name and backs the case/whitespace-insensitive uniqueness constraint.
type Product struct {
	ID                uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name              string          `gorm:"column:name;not null"`
	NameKey           string          `gorm:"column:name_key;not null;uniqueIndex"`
	SKU               *string         `gorm:"column:sku;index"`
	Price             decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	MinStockThreshold int             `gorm:"column:min_stock_threshold;not null;default:0"`
	Inventory         *InventoryItem  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
