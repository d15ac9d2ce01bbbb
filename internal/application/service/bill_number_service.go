package service

import (
	"context"

	"github.com/sangkips/restobill-api/internal/domain/billing"
)

// BillNumberService exposes the bill number sequencer
type BillNumberService struct {
	sequencer *billing.Sequencer
}

// NewBillNumberService creates a new bill number service
func NewBillNumberService(sequencer *billing.Sequencer) *BillNumberService {
	return &BillNumberService{sequencer: sequencer}
}

// BillNumbers is what the billing screen shows
type BillNumbers struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

// GetBillNumbers returns the number for the bill being prepared and the
// number after it
func (s *BillNumberService) GetBillNumbers(ctx context.Context) (*BillNumbers, error) {
	current, err := s.sequencer.Current(ctx)
	if err != nil {
		return nil, err
	}
	next, err := s.sequencer.PeekNext(ctx)
	if err != nil {
		return nil, err
	}
	return &BillNumbers{Current: current, Next: next}, nil
}

// OverrideBillNumber sets the number of the bill being prepared
func (s *BillNumberService) OverrideBillNumber(ctx context.Context, number string) (*BillNumbers, error) {
	current, err := s.sequencer.ManualOverride(ctx, number)
	if err != nil {
		return nil, err
	}
	next, err := s.sequencer.PeekNext(ctx)
	if err != nil {
		return nil, err
	}
	return &BillNumbers{Current: current, Next: next}, nil
}
