package repository

import (
	"context"

	"github.com/sangkips/restobill-api/internal/domain/entity"
)

// MenuRepository defines the interface for menu data access
type MenuRepository interface {
	List(ctx context.Context) ([]entity.MenuItem, error)
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
	// ReplaceAll swaps the whole menu for items
	ReplaceAll(ctx context.Context, items []entity.MenuItem) error
}
