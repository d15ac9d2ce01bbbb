package repository

import (
	"context"

	"github.com/sangkips/restobill-api/internal/domain/entity"
)

// SettingsRepository defines the interface for shop settings data access
type SettingsRepository interface {
	// Get returns nil, nil when no settings row exists yet
	Get(ctx context.Context) (*entity.AppSettings, error)
	Save(ctx context.Context, settings *entity.AppSettings) error
}
