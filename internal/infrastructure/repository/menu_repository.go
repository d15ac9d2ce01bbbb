package repository

import (
	"context"
	"errors"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restobill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) domainRepo.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) List(ctx context.Context) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := conn(ctx, r.db).Order("position ASC").Find(&items).Error
	return items, err
}

func (r *menuRepository) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := conn(ctx, r.db).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ReplaceAll deletes the current menu and inserts items in one transaction
func (r *menuRepository) ReplaceAll(ctx context.Context, items []entity.MenuItem) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entity.MenuItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].Position = i
		}
		return tx.CreateInBatches(items, 100).Error
	})
}
