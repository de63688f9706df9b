package enums

import "fmt"

// ReceiptItemKind distinguishes service lines from stock-tracked product lines.
type ReceiptItemKind string

const (
	ReceiptItemKindService ReceiptItemKind = "service"
	ReceiptItemKindProduct ReceiptItemKind = "product"
)

var validReceiptItemKinds = []ReceiptItemKind{
	ReceiptItemKindService,
	ReceiptItemKindProduct,
}

// IsValid reports whether the value matches a known receipt item kind.
func (k ReceiptItemKind) IsValid() bool {
	for _, candidate := range validReceiptItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseReceiptItemKind converts raw input into ReceiptItemKind.
func ParseReceiptItemKind(value string) (ReceiptItemKind, error) {
	for _, candidate := range validReceiptItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid receipt item kind %q", value)
}
