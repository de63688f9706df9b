package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.InventoryItem{}, &models.InventoryLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(gormTxRunner{db: db}, NewRepository(db), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, name string, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, NameKey: name}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	item := &models.InventoryItem{ProductID: product.ID, Quantity: quantity}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	if quantity != 0 {
		log := &models.InventoryLog{ProductID: product.ID, ChangeAmount: quantity, Reason: enums.InventoryLogReasonRestock}
		if err := db.Create(log).Error; err != nil {
			t.Fatalf("seed log: %v", err)
		}
	}
	return product
}

func TestAdjustAppendsLogAndUpdatesQuantity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, "shampoo", 0)

	item, err := svc.Adjust(ctx, AdjustInput{
		ProductID:    product.ID,
		ChangeAmount: 30,
		Reason:       enums.InventoryLogReasonRestock,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if item.Quantity != 30 {
		t.Fatalf("expected quantity 30, got %d", item.Quantity)
	}

	if _, err := svc.Adjust(ctx, AdjustInput{
		ProductID:    product.ID,
		ChangeAmount: -12,
		Reason:       enums.InventoryLogReasonAdjustment,
	}); err != nil {
		t.Fatalf("adjust down: %v", err)
	}

	logs, err := svc.LogsForProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	if logs[0].ChangeAmount != 30 || logs[1].ChangeAmount != -12 {
		t.Fatalf("unexpected log amounts: %+v", logs)
	}

	var current models.InventoryItem
	if err := db.First(&current, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if current.Quantity != 18 {
		t.Fatalf("expected quantity 18, got %d", current.Quantity)
	}
}

func TestAdjustRejectsOverdraw(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, "conditioner", 5)

	_, err := svc.Adjust(ctx, AdjustInput{
		ProductID:    product.ID,
		ChangeAmount: -6,
		Reason:       enums.InventoryLogReasonAdjustment,
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error: %v", err)
	}

	// Rejected adjustments must leave both stores untouched.
	var current models.InventoryItem
	if err := db.First(&current, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if current.Quantity != 5 {
		t.Fatalf("expected quantity 5 after rejection, got %d", current.Quantity)
	}

	var logCount int64
	if err := db.Model(&models.InventoryLog{}).Where("product_id = ?", product.ID).Count(&logCount).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logCount != 1 {
		t.Fatalf("expected 1 log entry after rejection, got %d", logCount)
	}
}

func TestAdjustExactDepletionReachesZero(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, "hairspray", 5)

	item, err := svc.Adjust(ctx, AdjustInput{
		ProductID:    product.ID,
		ChangeAmount: -5,
		Reason:       enums.InventoryLogReasonAdjustment,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if item.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", item.Quantity)
	}
}

func TestLogSumMatchesQuantity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, "gel", 0)

	changes := []int{10, -3, 7, -1, -2}
	for _, change := range changes {
		reason := enums.InventoryLogReasonRestock
		if change < 0 {
			reason = enums.InventoryLogReasonAdjustment
		}
		if _, err := svc.Adjust(ctx, AdjustInput{
			ProductID:    product.ID,
			ChangeAmount: change,
			Reason:       reason,
		}); err != nil {
			t.Fatalf("adjust %d: %v", change, err)
		}
	}

	logs, err := svc.LogsForProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	sum := 0
	for _, log := range logs {
		sum += log.ChangeAmount
	}

	snapshot, err := svc.GetByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if sum != snapshot.Item.Quantity {
		t.Fatalf("log sum %d does not match quantity %d", sum, snapshot.Item.Quantity)
	}
	if snapshot.Item.Quantity != 11 {
		t.Fatalf("expected quantity 11, got %d", snapshot.Item.Quantity)
	}
}

func TestAdjustValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()
	product := seedProduct(t, db, "wax", 10)

	cases := []struct {
		name  string
		input AdjustInput
	}{
		{"zero change", AdjustInput{ProductID: product.ID, ChangeAmount: 0, Reason: enums.InventoryLogReasonRestock}},
		{"invalid reason", AdjustInput{ProductID: product.ID, ChangeAmount: 1, Reason: "donation"}},
		{"sale without receipt", AdjustInput{ProductID: product.ID, ChangeAmount: -1, Reason: enums.InventoryLogReasonSale}},
		{"missing product id", AdjustInput{ChangeAmount: 1, Reason: enums.InventoryLogReasonRestock}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Adjust(ctx, tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAdjustUnknownProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Adjust(context.Background(), AdjustInput{
		ProductID:    9999,
		ChangeAmount: 1,
		Reason:       enums.InventoryLogReasonRestock,
	})
	if err == nil {
		t.Fatal("expected not found error")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSnapshotStatusThresholds(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	product := &models.Product{Name: "dye", NameKey: "dye", MinStockThreshold: 5}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := db.Create(&models.InventoryItem{ProductID: product.ID, Quantity: 0}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	snapshot, err := svc.GetByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.Status != enums.StockStatusOut {
		t.Fatalf("expected out status, got %s", snapshot.Status)
	}

	if _, err := svc.Adjust(ctx, AdjustInput{ProductID: product.ID, ChangeAmount: 4, Reason: enums.InventoryLogReasonRestock}); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	snapshot, err = svc.GetByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.Status != enums.StockStatusLow {
		t.Fatalf("expected low status, got %s", snapshot.Status)
	}

	if _, err := svc.Adjust(ctx, AdjustInput{ProductID: product.ID, ChangeAmount: 20, Reason: enums.InventoryLogReasonRestock}); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	snapshot, err = svc.GetByProductID(ctx, product.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot.Status != enums.StockStatusGood {
		t.Fatalf("expected good status, got %s", snapshot.Status)
	}
}
