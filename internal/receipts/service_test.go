package receipts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ghazlapps/salon-backend/pkg/db/models"
	"github.com/ghazlapps/salon-backend/pkg/enums"
	pkgerrors "github.com/ghazlapps/salon-backend/pkg/errors"
)

func setupReceiptsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:receipts_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Receipt{}, &models.ReceiptItem{}))
	return db
}

func seedReceipt(t *testing.T, db *gorm.DB, customerID uint, total string) *models.Receipt {
	t.Helper()

	amount := decimal.RequireFromString(total)
	receipt := &models.Receipt{
		CustomerID: customerID,
		Timestamp:  time.Now(),
		Subtotal:   amount,
		Tip:        decimal.Zero,
		Total:      amount,
	}
	require.NoError(t, db.Create(receipt).Error)

	item := models.ReceiptItem{
		ReceiptID: receipt.ID,
		ItemKind:  enums.ReceiptItemKindProduct,
		ItemID:    1,
		Name:      "Shampoo",
		Quantity:  1,
		UnitPrice: amount,
		LineTotal: amount,
	}
	require.NoError(t, db.Create(&item).Error)
	return receipt
}

func TestGetByIDLoadsItems(t *testing.T) {
	t.Parallel()

	db := setupReceiptsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	seeded := seedReceipt(t, db, 1, "20")

	receipt, err := svc.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Shampoo", receipt.Items[0].Name)
	assert.True(t, receipt.Total.Equal(decimal.RequireFromString("20")))
}

func TestGetByIDNotFound(t *testing.T) {
	t.Parallel()

	db := setupReceiptsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListByCustomerID(t *testing.T) {
	t.Parallel()

	db := setupReceiptsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	seedReceipt(t, db, 1, "20")
	seedReceipt(t, db, 1, "35")
	seedReceipt(t, db, 2, "50")

	mine, err := svc.ListByCustomerID(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
