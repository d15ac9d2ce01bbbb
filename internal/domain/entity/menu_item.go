package entity

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var nonVegPattern = regexp.MustCompile(`(?i)chicken|egg`)

// MenuItem is a dish on the menu. Billing only reads it.
type MenuItem struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string          `gorm:"size:100;not null;index" json:"category"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
	Position    int             `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// IsNonVeg flags dishes whose name mentions chicken or egg.
func (m MenuItem) IsNonVeg() bool {
	return nonVegPattern.MatchString(m.Name)
}
