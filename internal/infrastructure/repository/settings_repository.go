package repository

import (
	"context"
	"errors"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get retrieves the shop settings row
func (r *settingsRepository) Get(ctx context.Context) (*entity.AppSettings, error) {
	var settings entity.AppSettings
	err := conn(ctx, r.db).First(&settings, "id = ?", entity.AppSettingsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or updates the shop settings row
func (r *settingsRepository) Save(ctx context.Context, settings *entity.AppSettings) error {
	settings.ID = entity.AppSettingsID
	return conn(ctx, r.db).Save(settings).Error
}
