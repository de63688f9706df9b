package receipts

import (
	"context"

	"github.com/ghazlapps/salon-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for receipts and their line items. Receipts
// are write-once: there are no update or delete operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, receipt *models.Receipt) error
	CreateItems(ctx context.Context, items []models.ReceiptItem) error
	FindByID(ctx context.Context, id uint) (*models.Receipt, error)
	ListByCustomerID(ctx context.Context, customerID uint) ([]models.Receipt, error)
	List(ctx context.Context) ([]models.Receipt, error)
	ListItemsByReceiptID(ctx context.Context, receiptID uint) ([]models.ReceiptItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a receipt repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.ReceiptItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *repository) ListByCustomerID(ctx context.Context, customerID uint) ([]models.Receipt, error) {
	var rows []models.Receipt
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context) ([]models.Receipt, error) {
	var rows []models.Receipt
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListItemsByReceiptID(ctx context.Context, receiptID uint) ([]models.ReceiptItem, error) {
	var items []models.ReceiptItem
	if err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
