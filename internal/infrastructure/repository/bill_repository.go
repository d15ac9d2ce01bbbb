package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restobill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("bill_items.position ASC")
}

// Create inserts the bill together with its lines
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	err := conn(ctx, r.db).Create(bill).Error
	if isUniqueViolation(err) {
		return domainRepo.ErrDuplicateBillID
	}
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	var bill entity.Bill
	err := conn(ctx, r.db).Preload("Items", orderedItems).First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := conn(ctx, r.db).Preload("Items", orderedItems).Order("recorded_at ASC").Find(&bills).Error
	return bills, err
}

func (r *billRepository) ListUnsynced(ctx context.Context) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := conn(ctx, r.db).
		Preload("Items", orderedItems).
		Where("synced_to_cloud = ?", false).
		Order("recorded_at ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(ctx, r.db).
		Model(&entity.Bill{}).
		Where("id IN ?", ids).
		Update("synced_to_cloud", true).Error
}
