package request

import "github.com/shopspring/decimal"

// UpdateSettingsRequest replaces the shop settings
type UpdateSettingsRequest struct {
	ShopName      string           `json:"shop_name"`
	ShopAddress   string           `json:"shop_address"`
	ShopGST       string           `json:"shop_gst"`
	ShopPhone     string           `json:"shop_phone"`
	Currency      string           `json:"currency"`
	CGSTRate      *decimal.Decimal `json:"cgst_rate"`
	SGSTRate      *decimal.Decimal `json:"sgst_rate"`
	PrinterFormat string           `json:"printer_format"`
	Locale        string           `json:"locale"`
}
