package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and user ID
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Reserve inserts a pending entry for the key. It reports false when a
	// live entry already holds the key; an expired one is taken over.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete stores the response of a reserved key
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a pending entry so the request can be retried
	Release(ctx context.Context, key string, userID uuid.UUID) error
	// DeleteExpired removes expired idempotency keys (for cleanup)
	DeleteExpired(ctx context.Context) error
}
