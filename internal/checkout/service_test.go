package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ghazlapps/salon-backend/internal/catalog"
	"github.com/ghazlapps/salon-backend/internal/customers"
	"github.com/ghazlapps/salon-backend/internal/inventory"
	"github.com/ghazlapps/salon-backend/internal/receipts"
	"github.com/ghazlapps/salon-backend/pkg/db/models"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type fixture struct {
	db       *gorm.DB
	checkout Service
	ledger   inventory.Service
	catalog  catalog.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Service{},
		&models.Product{},
		&models.InventoryItem{},
		&models.InventoryLog{},
		&models.Receipt{},
		&models.ReceiptItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tx := gormTxRunner{db: db}
	invRepo := inventory.NewRepository(db)
	catRepo := catalog.NewRepository(db)

	ledger, err := inventory.NewService(tx, invRepo, nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	catalogService, err := catalog.NewService(tx, catRepo, invRepo)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	checkoutService, err := NewService(tx, customers.NewRepository(db), catRepo, ledger, receipts.NewRepository(db), nil)
	if err != nil {
		t.Fatalf("new checkout: %v", err)
	}

	return &fixture{db: db, checkout: checkoutService, ledger: ledger, catalog: catalogService}
}

func (f *fixture) seedCustomer(t *testing.T, name string) *models.Customer {
	t.Helper()
	customer := &models.Customer{Name: name, Phone: "555-0100"}
	if err := f.db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func (f *fixture) seedProduct(t *testing.T, name string, price string, stock int) *models.Product {
	t.Helper()
	product, err := f.catalog.CreateProduct(context.Background(), catalog.ProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if stock > 0 {
		if _, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
			ProductID:    product.ID,
			ChangeAmount: stock,
			Reason:       enums.InventoryLogReasonRestock,
		}); err != nil {
			t.Fatalf("seed stock: %v", err)
		}
	}
	return product
}

func (f *fixture) seedService(t *testing.T, name string, price string) *models.Service {
	t.Helper()
	svc, err := f.catalog.CreateService(context.Background(), catalog.ServiceInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc
}

func (f *fixture) quantity(t *testing.T, productID uint) int {
	t.Helper()
	snapshot, err := f.ledger.GetByProductID(context.Background(), productID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snapshot.Item.Quantity
}

func TestCheckoutSettlesSale(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Dana")
	shampoo := f.seedProduct(t, "Shampoo", "20", 30)

	receipt, err := f.checkout.Checkout(ctx, CheckoutInput{
		CustomerID: customer.ID,
		Lines: []CartLine{
			{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 5},
		},
		Tip: decimal.RequireFromString("10"),
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if !receipt.Subtotal.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected subtotal 100, got %s", receipt.Subtotal)
	}
	if !receipt.Total.Equal(decimal.RequireFromString("110")) {
		t.Fatalf("expected total 110, got %s", receipt.Total)
	}

	if got := f.quantity(t, shampoo.ID); got != 25 {
		t.Fatalf("expected stock 25, got %d", got)
	}

	logs, err := f.ledger.LogsForProduct(ctx, shampoo.ID)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	last := logs[len(logs)-1]
	if last.ChangeAmount != -5 || last.Reason != enums.InventoryLogReasonSale {
		t.Fatalf("unexpected sale log: %+v", last)
	}
	if last.ReceiptID == nil || *last.ReceiptID != receipt.ID {
		t.Fatalf("sale log must reference receipt %d: %+v", receipt.ID, last)
	}

	var items []models.ReceiptItem
	if err := f.db.Where("receipt_id = ?", receipt.ID).Find(&items).Error; err != nil {
		t.Fatalf("load items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 receipt item, got %d", len(items))
	}
	if items[0].Name != "Shampoo" || !items[0].UnitPrice.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("unexpected receipt item: %+v", items[0])
	}
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Dana")
	shampoo := f.seedProduct(t, "Shampoo", "20", 25)

	_, err := f.checkout.Checkout(ctx, CheckoutInput{
		CustomerID: customer.ID,
		Lines: []CartLine{
			{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 26},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nothing may have been written.
	if got := f.quantity(t, shampoo.ID); got != 25 {
		t.Fatalf("expected stock unchanged at 25, got %d", got)
	}
	var receiptCount int64
	if err := f.db.Model(&models.Receipt{}).Count(&receiptCount).Error; err != nil {
		t.Fatalf("count receipts: %v", err)
	}
	if receiptCount != 0 {
		t.Fatalf("expected no receipts, got %d", receiptCount)
	}
	var saleLogs int64
	if err := f.db.Model(&models.InventoryLog{}).
		Where("reason = ?", enums.InventoryLogReasonSale).
		Count(&saleLogs).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if saleLogs != 0 {
		t.Fatalf("expected no sale logs, got %d", saleLogs)
	}
}

func TestCheckoutAllOrNothingAcrossProducts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Dana")
	plenty := f.seedProduct(t, "Shampoo", "20", 50)
	scarce := f.seedProduct(t, "Serum", "45", 1)

	_, err := f.checkout.Checkout(ctx, CheckoutInput{
		CustomerID: customer.ID,
		Lines: []CartLine{
			{Kind: enums.ReceiptItemKindProduct, ItemID: plenty.ID, Quantity: 2},
			{Kind: enums.ReceiptItemKindProduct, ItemID: scarce.ID, Quantity: 3},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error: %v", err)
	}

	// The product with enough stock must not be depleted either.
	if got := f.quantity(t, plenty.ID); got != 50 {
		t.Fatalf("expected stock 50, got %d", got)
	}
	if got := f.quantity(t, scarce.ID); got != 1 {
		t.Fatalf("expected stock 1, got %d", got)
	}
}

func TestCheckoutAggregatesDuplicateProductLines(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Dana")
	shampoo := f.seedProduct(t, "Shampoo", "20", 5)

	// 3 + 3 exceeds the 5 in stock even though each line alone fits.
	_, err := f.checkout.Checkout(ctx, CheckoutInput{
		CustomerID: customer.ID,
		Lines: []CartLine{
			{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 3},
			{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 3},
		},
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.quantity(t, shampoo.ID); got != 5 {
		t.Fatalf("expected stock unchanged at 5, got %d", got)
	}
}

func TestCheckoutServiceLinesSkipStock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Dana")
	haircut := f.seedService(t, "Haircut", "35")

	receipt, err := f.checkout.Checkout(ctx, CheckoutInput{
		CustomerID: customer.ID,
		Lines: []CartLine{
			{Kind: enums.ReceiptItemKindService, ItemID: haircut.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !receipt.Total.Equal(decimal.RequireFromString("70")) {
		t.Fatalf("expected total 70, got %s", receipt.Total)
	}

	var logCount int64
	if err := f.db.Model(&models.InventoryLog{}).Count(&logCount).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logCount != 0 {
		t.Fatalf("service sale must not touch the ledger, got %d logs", logCount)
	}
}

func TestCheckoutCapturesPriceAtSaleTime(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Dana")
	shampoo := f.seedProduct(t, "Shampoo", "20", 10)

	receipt, err := f.checkout.Checkout(ctx, CheckoutInput{
		CustomerID: customer.ID,
		Lines: []CartLine{
			{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Rename and reprice the product after the sale.
	if _, err := f.catalog.UpdateProduct(ctx, shampoo.ID, catalog.ProductInput{
		Name:  "Shampoo Deluxe",
		Price: decimal.RequireFromString("99"),
	}); err != nil {
		t.Fatalf("update product: %v", err)
	}

	var items []models.ReceiptItem
	if err := f.db.Where("receipt_id = ?", receipt.ID).Find(&items).Error; err != nil {
		t.Fatalf("load items: %v", err)
	}
	if items[0].Name != "Shampoo" {
		t.Fatalf("receipt item name changed: %q", items[0].Name)
	}
	if !items[0].UnitPrice.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("receipt item price changed: %s", items[0].UnitPrice)
	}
}

func TestCheckoutValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "Dana")
	shampoo := f.seedProduct(t, "Shampoo", "20", 10)

	cases := []struct {
		name  string
		input CheckoutInput
		code  pkgerrors.Code
	}{
		{
			"unknown customer",
			CheckoutInput{CustomerID: 9999, Lines: []CartLine{{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 1}}},
			pkgerrors.CodeNotFound,
		},
		{
			"empty cart",
			CheckoutInput{CustomerID: customer.ID},
			pkgerrors.CodeValidation,
		},
		{
			"negative tip",
			CheckoutInput{
				CustomerID: customer.ID,
				Lines:      []CartLine{{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 1}},
				Tip:        decimal.RequireFromString("-1"),
			},
			pkgerrors.CodeValidation,
		},
		{
			"zero quantity",
			CheckoutInput{
				CustomerID: customer.ID,
				Lines:      []CartLine{{Kind: enums.ReceiptItemKindProduct, ItemID: shampoo.ID, Quantity: 0}},
			},
			pkgerrors.CodeValidation,
		},
		{
			"unknown product",
			CheckoutInput{
				CustomerID: customer.ID,
				Lines:      []CartLine{{Kind: enums.ReceiptItemKindProduct, ItemID: 9999, Quantity: 1}},
			},
			pkgerrors.CodeNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.checkout.Checkout(ctx, tc.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !pkgerrors.IsCode(err, tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
		})
	}
}
