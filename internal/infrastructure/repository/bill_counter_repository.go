package repository

import (
	"context"
	"errors"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restobill-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billCounterRepository struct {
	db *gorm.DB
}

// NewBillCounterRepository creates a new bill counter repository
func NewBillCounterRepository(db *gorm.DB) domainRepo.BillCounterRepository {
	return &billCounterRepository{db: db}
}

// Load reads the counter, returning a zero counter before the first bill
func (r *billCounterRepository) Load(ctx context.Context) (*entity.BillCounter, error) {
	var counter entity.BillCounter
	err := conn(ctx, r.db).First(&counter, "id = ?", entity.BillCounterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entity.BillCounter{ID: entity.BillCounterID, LastNumber: "00"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

// Update locks the counter row with SELECT ... FOR UPDATE so two terminals
// cannot interleave their read-modify-write
func (r *billCounterRepository) Update(ctx context.Context, fn func(*entity.BillCounter) error) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		seed := entity.BillCounter{ID: entity.BillCounterID, LastNumber: "00"}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var counter entity.BillCounter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "id = ?", entity.BillCounterID).Error; err != nil {
			return err
		}

		if err := fn(&counter); err != nil {
			return err
		}
		return tx.Save(&counter).Error
	})
}
