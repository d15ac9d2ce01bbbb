package repository

import (
	"context"

	"github.com/sangkips/restobill-api/internal/domain/entity"
)

// BillCounterRepository persists the single bill number counter.
type BillCounterRepository interface {
	// Load reads the counter without locking it
	Load(ctx context.Context) (*entity.BillCounter, error)
	// Update runs fn against the locked counter row and saves the result
	// atomically. The row is not saved when fn returns an error.
	Update(ctx context.Context, fn func(counter *entity.BillCounter) error) error
}
