package enums

import "fmt"

// InventoryLogReason classifies why a stock level changed.
type InventoryLogReason string

const (
	InventoryLogReasonSale       InventoryLogReason = "sale"
	InventoryLogReasonRestock    InventoryLogReason = "restock"
	InventoryLogReasonAdjustment InventoryLogReason = "adjustment"
)

var validInventoryLogReasons = []InventoryLogReason{
	InventoryLogReasonSale,
	InventoryLogReasonRestock,
	InventoryLogReasonAdjustment,
}

// IsValid reports whether the value matches a known log reason.
func (r InventoryLogReason) IsValid() bool {
	for _, candidate := range validInventoryLogReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseInventoryLogReason converts raw input into InventoryLogReason.
func ParseInventoryLogReason(value string) (InventoryLogReason, error) {
	for _, candidate := range validInventoryLogReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory log reason %q", value)
}
