package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
}
