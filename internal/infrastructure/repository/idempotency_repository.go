package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/restobill-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := conn(ctx, r.db).
		Where("key = ? AND user_id = ?", key, userID).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ikey, nil
}

// Reserve inserts the pending entry. An expired entry with the same key is
// overwritten; a live one leaves the insert with no affected rows.
func (r *idempotencyRepository) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"endpoint", "response_code", "response_body", "expires_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "idempotency_keys.expires_at < ?", Vars: []interface{}{time.Now()}},
		}},
	}).Create(ikey)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *idempotencyRepository) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return conn(ctx, r.db).
		Model(&entity.IdempotencyKey{}).
		Where("key = ? AND user_id = ?", ikey.Key, ikey.UserID).
		Updates(map[string]interface{}{
			"response_code": ikey.ResponseCode,
			"response_body": ikey.ResponseBody,
			"expires_at":    ikey.ExpiresAt,
		}).Error
}

func (r *idempotencyRepository) Release(ctx context.Context, key string, userID uuid.UUID) error {
	return conn(ctx, r.db).
		Where("key = ? AND user_id = ? AND response_code = 0", key, userID).
		Delete(&entity.IdempotencyKey{}).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return conn(ctx, r.db).
		Where("expires_at < ?", time.Now()).
		Delete(&entity.IdempotencyKey{}).Error
}
