package inventory

import (
	"context"
	"fmt"

	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/db/models"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
	"github.com/ghazlapps/salon-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the single authority over stock levels. Every quantity mutation
// goes through Adjust (or AdjustTx inside a caller-owned transaction), which
// updates the inventory row and appends exactly one log entry atomically.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*models.InventoryItem, error)
	AdjustTx(ctx context.Context, tx *gorm.DB, input AdjustInput) (*models.InventoryItem, error)
	GetByProductID(ctx context.Context, productID uint) (*Snapshot, error)
	LogsForProduct(ctx context.Context, productID uint) ([]models.InventoryLog, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
}

// AdjustInput captures one signed stock change.
type AdjustInput struct {
	ProductID    uint
	ChangeAmount int
	Reason       enums.InventoryLogReason
	ReceiptID    *uint
	Note         *string
}

// Snapshot pairs a point-in-time inventory read with its derived status.
type Snapshot struct {
	Item   models.InventoryItem
	Status enums.StockStatus
}

// InsufficientStockDetail names the product whose stock could not cover a
// requested decrement.
type InsufficientStockDetail struct {
	ProductID uint   `json:"product_id"`
	Product   string `json:"product"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

type service struct {
	tx      txRunner
	repo    Repository
	metrics *metrics.POSMetrics
}

// NewService wires the inventory ledger with its repository and transaction
// runner. Metrics may be nil.
func NewService(tx txRunner, repo Repository, m *metrics.POSMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{tx: tx, repo: repo, metrics: m}, nil
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (*models.InventoryItem, error) {
	if err := validateAdjustInput(input); err != nil {
		return nil, err
	}

	var item *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		item, txErr = s.applyAdjustment(ctx, tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAdjustment(string(input.Reason))
	return item, nil
}

// AdjustTx applies an adjustment inside a transaction the caller already
// owns. Checkout uses this so receipt writes and stock decrements share one
// commit.
func (s *service) AdjustTx(ctx context.Context, tx *gorm.DB, input AdjustInput) (*models.InventoryItem, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction handle required")
	}
	if err := validateAdjustInput(input); err != nil {
		return nil, err
	}
	item, err := s.applyAdjustment(ctx, tx, input)
	if err != nil {
		return nil, err
	}
	s.metrics.IncAdjustment(string(input.Reason))
	return item, nil
}

func (s *service) applyAdjustment(ctx context.Context, tx *gorm.DB, input AdjustInput) (*models.InventoryItem, error) {
	repo := s.repo.WithTx(tx)

	item, err := repo.GetByProductID(ctx, input.ProductID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no inventory record for product %d", input.ProductID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading inventory record")
	}

	newQuantity := item.Quantity + input.ChangeAmount
	if newQuantity < 0 {
		return nil, InsufficientStockError(item, -input.ChangeAmount)
	}

	item.Quantity = newQuantity
	if err := repo.SaveItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "updating inventory record")
	}

	entry := &models.InventoryLog{
		ProductID:    input.ProductID,
		ChangeAmount: input.ChangeAmount,
		Reason:       input.Reason,
		ReceiptID:    input.ReceiptID,
		Note:         input.Note,
	}
	if err := repo.CreateLog(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "appending inventory log entry")
	}

	return item, nil
}

func (s *service) GetByProductID(ctx context.Context, productID uint) (*Snapshot, error) {
	if productID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	item, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("no inventory record for product %d", productID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading inventory record")
	}
	return &Snapshot{Item: *item, Status: statusFor(item)}, nil
}

func (s *service) LogsForProduct(ctx context.Context, productID uint) ([]models.InventoryLog, error) {
	if productID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	entries, err := s.repo.ListLogsByProductID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing inventory log entries")
	}
	return entries, nil
}

func (s *service) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "listing inventory records")
	}
	snapshots := make([]Snapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, Snapshot{Item: item, Status: statusFor(&item)})
	}
	return snapshots, nil
}

// InsufficientStockError builds the typed rejection for a decrement that
// would drive the quantity negative.
func InsufficientStockError(item *models.InventoryItem, requested int) *pkgerrors.Error {
	name := fmt.Sprintf("product %d", item.ProductID)
	if item.Product != nil {
		name = item.Product.Name
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s: have %d, need %d", name, item.Quantity, requested)).
		WithDetails(InsufficientStockDetail{
			ProductID: item.ProductID,
			Product:   name,
			Available: item.Quantity,
			Requested: requested,
		})
}

func validateAdjustInput(input AdjustInput) error {
	if input.ProductID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.ChangeAmount == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "change amount must be non-zero")
	}
	if !input.Reason.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid inventory log reason %q", input.Reason))
	}
	if input.Reason == enums.InventoryLogReasonSale && input.ReceiptID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale adjustments require a receipt reference")
	}
	return nil
}

func statusFor(item *models.InventoryItem) enums.StockStatus {
	threshold := 0
	if item.Product != nil {
		threshold = item.Product.MinStockThreshold
	}
	return enums.ClassifyStock(item.Quantity, threshold)
}
