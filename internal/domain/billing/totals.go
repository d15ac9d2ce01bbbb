// Package billing holds the pure bill arithmetic: cart lines, totals with
// CGST/SGST, bill numbering and bill assembly.
package billing

import (
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	// DefaultTaxRate applies to CGST and SGST when the shop has not set one.
	DefaultTaxRate = decimal.RequireFromString("2.5")

	hundred = decimal.NewFromInt(100)
)

// TaxRates are percentages. A nil rate falls back to DefaultTaxRate.
type TaxRates struct {
	CGST *decimal.Decimal
	SGST *decimal.Decimal
}

// RatesFromSettings reads the configured rates, tolerating nil settings.
func RatesFromSettings(s *entity.AppSettings) TaxRates {
	if s == nil {
		return TaxRates{}
	}
	return TaxRates{CGST: s.CGSTRate, SGST: s.SGSTRate}
}

// Resolve returns the effective CGST and SGST percentages.
func (r TaxRates) Resolve() (cgst, sgst decimal.Decimal) {
	cgst, sgst = DefaultTaxRate, DefaultTaxRate
	if r.CGST != nil {
		cgst = *r.CGST
	}
	if r.SGST != nil {
		sgst = *r.SGST
	}
	return cgst, sgst
}

// Totals are exact; rounding happens only when they are displayed.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	Total    decimal.Decimal `json:"total"`
	CGSTRate decimal.Decimal `json:"cgst_rate"`
	SGSTRate decimal.Decimal `json:"sgst_rate"`
}

// LineSubtotal is price x quantity.
func LineSubtotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// CalculateTotals sums the lines and applies both taxes to the subtotal.
// An empty list yields zeros.
func CalculateTotals(items []entity.BillItem, rates TaxRates) Totals {
	cgstRate, sgstRate := rates.Resolve()

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineSubtotal(item.Price, item.Quantity))
	}

	cgst := subtotal.Mul(cgstRate).Div(hundred)
	sgst := subtotal.Mul(sgstRate).Div(hundred)

	return Totals{
		Subtotal: subtotal,
		CGST:     cgst,
		SGST:     sgst,
		Total:    subtotal.Add(cgst).Add(sgst),
		CGSTRate: cgstRate,
		SGSTRate: sgstRate,
	}
}
