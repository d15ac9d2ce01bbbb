package entity

import (
	"time"

	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// AppSettingsID is the primary key of the single settings row.
const AppSettingsID uint = 1

// AppSettings holds the shop details printed on receipts and the tax rates
// applied to every bill. A nil rate means the 2.5% default.
type AppSettings struct {
	ID            uint               `gorm:"primaryKey" json:"-"`
	ShopName      string             `gorm:"size:255;not null" json:"shop_name"`
	ShopAddress   string             `gorm:"type:text" json:"shop_address"`
	ShopGST       *string            `gorm:"column:shop_gst;size:32" json:"shop_gst,omitempty"`
	ShopPhone     *string            `gorm:"size:32" json:"shop_phone,omitempty"`
	Currency      string             `gorm:"size:8;not null;default:'₹'" json:"currency"`
	CGSTRate      *decimal.Decimal   `gorm:"column:cgst_rate;type:numeric(5,2)" json:"cgst_rate"`
	SGSTRate      *decimal.Decimal   `gorm:"column:sgst_rate;type:numeric(5,2)" json:"sgst_rate"`
	PrinterFormat enum.PrinterFormat `gorm:"size:8;not null;default:'80mm'" json:"printer_format"`
	Locale        string             `gorm:"size:10;not null;default:'en-GB'" json:"locale"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TableName returns the table name for the AppSettings model
func (AppSettings) TableName() string {
	return "app_settings"
}
