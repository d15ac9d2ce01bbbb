package billing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func menuItem(id, name, price string) entity.MenuItem {
	return entity.MenuItem{ID: id, Name: name, Price: dec(price), Category: "Starters", IsAvailable: true}
}

// --- Totals ---

func TestCalculateTotalsExample(t *testing.T) {
	items := []entity.BillItem{
		{MenuItemID: "1", Price: dec("100"), Quantity: 2},
		{MenuItemID: "2", Price: dec("50"), Quantity: 1},
	}

	got := CalculateTotals(items, TaxRates{CGST: decPtr("2.5"), SGST: decPtr("2.5")})

	assert.True(t, got.Subtotal.Equal(dec("250")), got.Subtotal.String())
	assert.True(t, got.CGST.Equal(dec("6.25")), got.CGST.String())
	assert.True(t, got.SGST.Equal(dec("6.25")), got.SGST.String())
	assert.True(t, got.Total.Equal(dec("262.50")), got.Total.String())
	assert.Equal(t, "262.50", got.Total.StringFixed(2))
}

func TestCalculateTotalsDefaultsAndZeroRates(t *testing.T) {
	items := []entity.BillItem{{Price: dec("200"), Quantity: 1}}

	defaulted := CalculateTotals(items, TaxRates{})
	assert.True(t, defaulted.CGST.Equal(dec("5")))
	assert.True(t, defaulted.SGST.Equal(dec("5")))

	untaxed := CalculateTotals(items, TaxRates{CGST: decPtr("0"), SGST: decPtr("0")})
	assert.True(t, untaxed.Total.Equal(dec("200")))
}

func TestCalculateTotalsEmpty(t *testing.T) {
	got := CalculateTotals(nil, TaxRates{})
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.CGST.IsZero())
	assert.True(t, got.SGST.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestTotalIsSumOfParts(t *testing.T) {
	rates := []string{"0", "1.5", "2.5", "6", "9", "14"}
	carts := [][]entity.BillItem{
		{{Price: dec("15"), Quantity: 3}},
		{{Price: dec("99.99"), Quantity: 7}, {Price: dec("0.01"), Quantity: 1}},
		{{Price: dec("120"), Quantity: 1}, {Price: dec("70"), Quantity: 4}, {Price: dec("25"), Quantity: 2}},
	}

	for _, rc := range rates {
		for _, rs := range rates {
			for _, items := range carts {
				got := CalculateTotals(items, TaxRates{CGST: decPtr(rc), SGST: decPtr(rs)})
				want := got.Subtotal.
					Add(got.Subtotal.Mul(dec(rc)).Div(hundred)).
					Add(got.Subtotal.Mul(dec(rs)).Div(hundred))
				assert.True(t, got.Total.Equal(want), "rates %s/%s", rc, rs)
			}
		}
	}
}

// --- Cart ---

func TestCartAddIncrementsExistingLine(t *testing.T) {
	cart := NewCart()
	dosa := menuItem("19", "Dosa", "15")

	cart.Add(dosa)
	line := cart.Add(dosa)

	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.Subtotal.Equal(dec("30")))
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem("46", "Parotta", "15"))

	line, err := cart.UpdateQuantity("46", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)
	assert.True(t, line.Subtotal.Equal(dec("60")))

	line, err = cart.UpdateQuantity("46", -4)
	assert.ErrorIs(t, err, apperror.ErrInvalidQuantity)
	assert.Equal(t, 4, line.Quantity)

	_, err = cart.UpdateQuantity("missing", 1)
	assert.True(t, apperror.IsAppError(err))
}

func TestCartQuantityNeverBelowOne(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem("9", "Boiled Egg", "15"))

	for i := 0; i < 5; i++ {
		_, _ = cart.UpdateQuantity("9", -1)
		for _, line := range cart.Items() {
			assert.GreaterOrEqual(t, line.Quantity, 1)
			assert.True(t, line.Subtotal.Equal(LineSubtotal(line.Price, line.Quantity)))
		}
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	cart.Add(menuItem("1", "Gobi Manchurian", "100"))
	cart.Add(menuItem("2", "Gobi Masala", "100"))

	assert.True(t, cart.Remove("1"))
	assert.False(t, cart.Remove("1"))
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, "2", cart.Items()[0].MenuItemID)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

// --- Sequencer ---

type memoryCounter struct {
	mu      sync.Mutex
	counter entity.BillCounter
	failErr error
}

func (m *memoryCounter) Load(ctx context.Context) (*entity.BillCounter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.counter
	return &c, nil
}

func (m *memoryCounter) Update(ctx context.Context, fn func(*entity.BillCounter) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	c := m.counter
	if err := fn(&c); err != nil {
		return err
	}
	m.counter = c
	return nil
}

func accept(string) error { return nil }

func TestSequencerPeekAfterClaim(t *testing.T) {
	ctx := context.Background()
	seq := NewSequencer(&memoryCounter{})

	first, err := seq.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01", first)

	_, err = seq.Claim(ctx, "07", accept)
	require.NoError(t, err)
	next, err := seq.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "08", next)

	again, _ := seq.PeekNext(ctx)
	assert.Equal(t, "08", again, "peek must not advance the counter")
}

func TestSequencerManualOverride(t *testing.T) {
	ctx := context.Background()
	store := &memoryCounter{counter: entity.BillCounter{LastNumber: "12"}}
	seq := NewSequencer(store)

	display, err := seq.ManualOverride(ctx, "50")
	require.NoError(t, err)
	assert.Equal(t, "50", display)
	assert.Equal(t, "49", store.counter.LastNumber)

	current, _ := seq.Current(ctx)
	assert.Equal(t, "50", current)

	next, err := seq.PeekNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "51", next)

	_, err = seq.Claim(ctx, "", accept)
	require.NoError(t, err)
	next, _ = seq.PeekNext(ctx)
	assert.Equal(t, "51", next)
	current, _ = seq.Current(ctx)
	assert.Equal(t, "51", current)
}

func TestSequencerSecondOverrideReplacesFirst(t *testing.T) {
	ctx := context.Background()
	seq := NewSequencer(&memoryCounter{})

	_, err := seq.ManualOverride(ctx, "50")
	require.NoError(t, err)
	display, err := seq.ManualOverride(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "07", display)

	next, _ := seq.PeekNext(ctx)
	assert.Equal(t, "08", next)
}

func TestSequencerRejectsBadNumbers(t *testing.T) {
	ctx := context.Background()
	seq := NewSequencer(&memoryCounter{})

	for _, raw := range []string{"", "abc", "-3", "0", "1.5", "12a"} {
		_, err := seq.ManualOverride(ctx, raw)
		assert.ErrorIs(t, err, apperror.ErrInvalidBillNumber, raw)
	}

	n, err := ParseBillNumber(" 007 ")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "123", FormatBillNumber(123))
}

func TestSequencerCounterFailureLeavesCounter(t *testing.T) {
	ctx := context.Background()
	store := &memoryCounter{counter: entity.BillCounter{LastNumber: "05"}, failErr: errors.New("disk full")}
	seq := NewSequencer(store)

	_, err := seq.Claim(ctx, "06", accept)
	assert.Error(t, err)
	assert.Equal(t, "05", store.counter.LastNumber)
}

func TestSequencerClaim(t *testing.T) {
	ctx := context.Background()
	store := &memoryCounter{counter: entity.BillCounter{LastNumber: "07"}}
	seq := NewSequencer(store)

	var stored []string
	keep := func(number string) error {
		stored = append(stored, number)
		return nil
	}

	first, err := seq.Claim(ctx, "", keep)
	require.NoError(t, err)
	second, err := seq.Claim(ctx, "", keep)
	require.NoError(t, err)
	assert.Equal(t, []string{"08", "09"}, []string{first, second})

	_, err = seq.ManualOverride(ctx, "50")
	require.NoError(t, err)
	reserved, err := seq.Claim(ctx, "", keep)
	require.NoError(t, err)
	assert.Equal(t, "50", reserved)
	assert.Empty(t, store.counter.ReservedNumber)

	explicit, err := seq.Claim(ctx, "3", keep)
	require.NoError(t, err)
	assert.Equal(t, "03", explicit)
	assert.Equal(t, "03", store.counter.LastNumber)
	assert.Equal(t, []string{"08", "09", "50", "03"}, stored)

	_, err = seq.Claim(ctx, "x1", keep)
	assert.ErrorIs(t, err, apperror.ErrInvalidBillNumber)
	assert.Len(t, stored, 4)
}

func TestSequencerClaimFailedStoreKeepsCounter(t *testing.T) {
	ctx := context.Background()
	store := &memoryCounter{counter: entity.BillCounter{LastNumber: "07", ReservedNumber: "20"}}
	seq := NewSequencer(store)

	_, err := seq.Claim(ctx, "", func(string) error { return errors.New("insert failed") })
	assert.Error(t, err)
	assert.Equal(t, "07", store.counter.LastNumber)
	assert.Equal(t, "20", store.counter.ReservedNumber)
}

func TestSequencerClaimConcurrent(t *testing.T) {
	ctx := context.Background()
	seq := NewSequencer(&memoryCounter{counter: entity.BillCounter{LastNumber: "00"}})

	const savers = 20
	var wg sync.WaitGroup
	numbers := make(chan string, savers)
	for i := 0; i < savers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.Claim(ctx, "", accept)
			assert.NoError(t, err)
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		assert.False(t, seen[n], "number %s handed out twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, savers)
}
