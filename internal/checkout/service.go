package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/ghazlapps/salon-backend/internal/catalog"
	"github.com/ghazlapps/salon-backend/internal/customers"
	"github.com/ghazlapps/salon-backend/internal/inventory"
	"github.com/ghazlapps/salon-backend/internal/receipts"
	"github.com/ghazlapps/salon-backend/pkg/db"
	"github.com/ghazlapps/salon-backend/pkg/db/models"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
	"github.com/ghazlapps/salon-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service converts a cart into a committed receipt, depleting stock for
// product lines through the inventory ledger with all-or-nothing semantics.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*models.Receipt, error)
}

// CartLine is one requested service or product with a quantity.
type CartLine struct {
	Kind     enums.ReceiptItemKind
	ItemID   uint
	Quantity int
}

// CheckoutInput captures one settlement request.
type CheckoutInput struct {
	CustomerID    uint
	AppointmentID *uint
	Lines         []CartLine
	Tip           decimal.Decimal
}

type service struct {
	tx           txRunner
	customerRepo customers.Repository
	catalogRepo  catalog.Repository
	ledger       inventory.Service
	receiptRepo  receipts.Repository
	metrics      *metrics.POSMetrics
}

// NewService builds the checkout orchestrator. Metrics may be nil.
func NewService(
	tx txRunner,
	customerRepo customers.Repository,
	catalogRepo catalog.Repository,
	ledger inventory.Service,
	receiptRepo receipts.Repository,
	m *metrics.POSMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if receiptRepo == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	return &service{
		tx:           tx,
		customerRepo: customerRepo,
		catalogRepo:  catalogRepo,
		ledger:       ledger,
		receiptRepo:  receiptRepo,
		metrics:      m,
	}, nil
}

// resolvedLine carries the catalog name and price captured for a cart line
// at checkout time. Later catalog edits never touch the committed receipt.
type resolvedLine struct {
	line      CartLine
	name      string
	unitPrice decimal.Decimal
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*models.Receipt, error) {
	start := time.Now()
	receipt, err := s.checkout(ctx, input)
	s.metrics.ObserveCheckout(time.Since(start), err == nil)
	return receipt, err
}

func (s *service) checkout(ctx context.Context, input CheckoutInput) (*models.Receipt, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	resolved, err := s.resolveLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	// Pre-flight stock validation over every product line, before any write.
	// Committing partial state would corrupt the audit trail, so the whole
	// cart is checked up front instead of relying on the ledger's rejection
	// mid-commit.
	if err := s.preflightStock(ctx, resolved); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range resolved {
		subtotal = subtotal.Add(line.unitPrice.Mul(decimal.NewFromInt(int64(line.line.Quantity))))
	}
	total := subtotal.Add(input.Tip)
	now := time.Now()

	receipt := &models.Receipt{
		CustomerID:    input.CustomerID,
		AppointmentID: input.AppointmentID,
		Timestamp:     now,
		Subtotal:      subtotal,
		Tip:           input.Tip,
		Total:         total,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		receiptRepo := s.receiptRepo.WithTx(tx)

		if err := receiptRepo.Create(ctx, receipt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating receipt")
		}

		items := make([]models.ReceiptItem, 0, len(resolved))
		for _, line := range resolved {
			items = append(items, models.ReceiptItem{
				ReceiptID: receipt.ID,
				ItemKind:  line.line.Kind,
				ItemID:    line.line.ItemID,
				Name:      line.name,
				Quantity:  line.line.Quantity,
				UnitPrice: line.unitPrice,
				LineTotal: line.unitPrice.Mul(decimal.NewFromInt(int64(line.line.Quantity))),
			})
		}
		if err := receiptRepo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "creating receipt items")
		}

		for _, line := range resolved {
			if line.line.Kind != enums.ReceiptItemKindProduct {
				continue
			}
			receiptID := receipt.ID
			if _, err := s.ledger.AdjustTx(ctx, tx, inventory.AdjustInput{
				ProductID:    line.line.ItemID,
				ChangeAmount: -line.line.Quantity,
				Reason:       enums.InventoryLogReasonSale,
				ReceiptID:    &receiptID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

func (s *service) validate(ctx context.Context, input CheckoutInput) error {
	if input.CustomerID == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no lines")
	}
	if input.Tip.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "tip must not be negative")
	}
	for i, line := range input.Lines {
		if !line.Kind.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("line %d: invalid item kind %q", i, line.Kind))
		}
		if line.ItemID == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d: item id required", i))
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("line %d: quantity must be at least 1", i))
		}
	}

	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("customer %d not found", input.CustomerID))
		}
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading customer")
	}
	return nil
}

func (s *service) resolveLines(ctx context.Context, lines []CartLine) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	for _, line := range lines {
		switch line.Kind {
		case enums.ReceiptItemKindProduct:
			product, err := s.catalogRepo.FindProductByID(ctx, line.ItemID)
			if err != nil {
				if db.IsNotFound(err) {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("product %d not found", line.ItemID))
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading product")
			}
			resolved = append(resolved, resolvedLine{line: line, name: product.Name, unitPrice: product.Price})
		case enums.ReceiptItemKindService:
			svc, err := s.catalogRepo.FindServiceByID(ctx, line.ItemID)
			if err != nil {
				if db.IsNotFound(err) {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("service %d not found", line.ItemID))
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "loading service")
			}
			resolved = append(resolved, resolvedLine{line: line, name: svc.Name, unitPrice: svc.Price})
		}
	}
	return resolved, nil
}

// preflightStock verifies that every product line (aggregated per product, so
// duplicate lines count together) is covered by current stock. All offending
// products are reported at once.
func (s *service) preflightStock(ctx context.Context, resolved []resolvedLine) error {
	requested := map[uint]int{}
	order := []uint{}
	for _, line := range resolved {
		if line.line.Kind != enums.ReceiptItemKindProduct {
			continue
		}
		if _, seen := requested[line.line.ItemID]; !seen {
			order = append(order, line.line.ItemID)
		}
		requested[line.line.ItemID] += line.line.Quantity
	}

	var combined error
	for _, productID := range order {
		snapshot, err := s.ledger.GetByProductID(ctx, productID)
		if err != nil {
			return err
		}
		if snapshot.Item.Quantity < requested[productID] {
			item := snapshot.Item
			combined = multierr.Append(combined,
				inventory.InsufficientStockError(&item, requested[productID]))
		}
	}
	return combined
}
