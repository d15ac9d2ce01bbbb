package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
)

// Sequencer hands out human-facing bill numbers from the persisted counter.
//
// The counter keeps the last committed number. A manual override stores
// newNumber-1 as the last number and remembers newNumber as reserved for the
// bill being keyed in, so the next suggestion already skips past it.
type Sequencer struct {
	counters repository.BillCounterRepository
}

// NewSequencer creates a sequencer over the counter store.
func NewSequencer(counters repository.BillCounterRepository) *Sequencer {
	return &Sequencer{counters: counters}
}

// ParseBillNumber accepts a positive decimal number, surrounding spaces and
// leading zeros allowed.
func ParseBillNumber(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, apperror.ErrInvalidBillNumber
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, apperror.ErrInvalidBillNumber
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, apperror.ErrInvalidBillNumber
	}
	return n, nil
}

// FormatBillNumber zero-pads to at least two digits.
func FormatBillNumber(n int) string {
	return fmt.Sprintf("%02d", n)
}

// lastOf treats a missing or corrupt counter as zero.
func lastOf(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func peek(counter *entity.BillCounter) int {
	next := lastOf(counter.LastNumber) + 1
	if counter.ReservedNumber != "" {
		if reserved := lastOf(counter.ReservedNumber); next <= reserved {
			next = reserved + 1
		}
	}
	return next
}

// PeekNext returns the number the next new bill would get. It does not
// change the counter.
func (s *Sequencer) PeekNext(ctx context.Context) (string, error) {
	counter, err := s.counters.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load bill counter: %w", err)
	}
	return FormatBillNumber(peek(counter)), nil
}

// Current returns the number to show on the bill being prepared: the
// reserved override if there is one, otherwise the next number.
func (s *Sequencer) Current(ctx context.Context) (string, error) {
	counter, err := s.counters.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load bill counter: %w", err)
	}
	if counter.ReservedNumber != "" {
		return counter.ReservedNumber, nil
	}
	return FormatBillNumber(lastOf(counter.LastNumber) + 1), nil
}

// Claim picks the number of a bill about to be stored and runs store with
// it while the counter row is locked. An explicit number wins, then the
// reserved override, then the next free number. The counter only advances
// when store succeeds.
func (s *Sequencer) Claim(ctx context.Context, explicit string, store func(number string) error) (string, error) {
	var want int
	if strings.TrimSpace(explicit) != "" {
		n, err := ParseBillNumber(explicit)
		if err != nil {
			return "", err
		}
		want = n
	}

	var claimed string
	err := s.counters.Update(ctx, func(counter *entity.BillCounter) error {
		n := want
		if n == 0 && counter.ReservedNumber != "" {
			n = lastOf(counter.ReservedNumber)
		}
		if n == 0 {
			n = lastOf(counter.LastNumber) + 1
		}
		number := FormatBillNumber(n)
		if err := store(number); err != nil {
			return err
		}
		claimed = number
		counter.LastNumber = number
		counter.ReservedNumber = ""
		return nil
	})
	if err != nil {
		return "", err
	}
	return claimed, nil
}

// ManualOverride makes raw the number of the bill being prepared and returns
// it zero-padded. A later override replaces an earlier one.
func (s *Sequencer) ManualOverride(ctx context.Context, raw string) (string, error) {
	n, err := ParseBillNumber(raw)
	if err != nil {
		return "", err
	}
	display := FormatBillNumber(n)
	err = s.counters.Update(ctx, func(counter *entity.BillCounter) error {
		counter.LastNumber = FormatBillNumber(n - 1)
		counter.ReservedNumber = display
		return nil
	})
	if err != nil {
		return "", err
	}
	return display, nil
}
