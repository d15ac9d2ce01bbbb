package billing

import (
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/pkg/apperror"
)

// Cart is an in-progress order. It is not safe for concurrent use.
type Cart struct {
	lines []entity.BillItem
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add puts one unit of item in the cart, bumping the quantity if the item is
// already there. The price is captured now and not refreshed later.
func (c *Cart) Add(item entity.MenuItem) entity.BillItem {
	for i := range c.lines {
		if c.lines[i].MenuItemID == item.ID {
			c.setQuantity(i, c.lines[i].Quantity+1)
			return c.lines[i]
		}
	}

	line := entity.BillItem{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
		Subtotal:   item.Price,
	}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity changes a line by delta. A change that would leave the line
// below 1 is rejected and the line stays as it was.
func (c *Cart) UpdateQuantity(menuItemID string, delta int) (entity.BillItem, error) {
	i := c.indexOf(menuItemID)
	if i < 0 {
		return entity.BillItem{}, apperror.NewNotFoundError("Cart item")
	}

	next := c.lines[i].Quantity + delta
	if next <= 0 {
		return c.lines[i], apperror.ErrInvalidQuantity
	}
	c.setQuantity(i, next)
	return c.lines[i], nil
}

// Remove deletes a line. It reports whether the line existed.
func (c *Cart) Remove(menuItemID string) bool {
	i := c.indexOf(menuItemID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Items returns a copy of the lines in the order they were added.
func (c *Cart) Items() []entity.BillItem {
	out := make([]entity.BillItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Totals computes the cart totals under rates.
func (c *Cart) Totals(rates TaxRates) Totals {
	return CalculateTotals(c.lines, rates)
}

func (c *Cart) indexOf(menuItemID string) int {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

func (c *Cart) setQuantity(i, quantity int) {
	c.lines[i].Quantity = quantity
	c.lines[i].Subtotal = LineSubtotal(c.lines[i].Price, quantity)
}
