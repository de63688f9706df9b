package enums

// StockStatus is the derived classification of a stock level against the
// product's alert threshold. It is computed on every read and never stored.
type StockStatus string

const (
	StockStatusOut  StockStatus = "out"
	StockStatusLow  StockStatus = "low"
	StockStatusGood StockStatus = "good"
)

// ClassifyStock derives the status for a quantity and threshold.
func ClassifyStock(quantity, threshold int) StockStatus {
	switch {
	case quantity == 0:
		return StockStatusOut
	case quantity <= threshold:
		return StockStatusLow
	default:
		return StockStatusGood
	}
}
