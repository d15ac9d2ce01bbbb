package repository

import (
	"context"
	"errors"

	"github.com/sangkips/restobill-api/internal/domain/entity"
)

// ErrDuplicateBillID is returned by Create when the generated bill ID is
// already taken.
var ErrDuplicateBillID = errors.New("bill id already exists")

// BillRepository defines the interface for bill data access
type BillRepository interface {
	// Create stores the bill and its lines
	Create(ctx context.Context, bill *entity.Bill) error
	// GetByID returns nil, nil when the bill does not exist
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	// List returns every bill with its lines, in storage order
	List(ctx context.Context) ([]entity.Bill, error)
	ListUnsynced(ctx context.Context) ([]entity.Bill, error)
	MarkSynced(ctx context.Context, ids []string) error
}
