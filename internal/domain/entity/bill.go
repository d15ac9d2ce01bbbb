package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill is one completed customer transaction. It is written once and only
// the cloud sync flag changes afterwards.
type Bill struct {
	ID            string             `gorm:"primaryKey;size:64" json:"id"`
	BillNumber    string             `gorm:"size:32;not null;index" json:"bill_number"`
	Items         []BillItem         `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal    `gorm:"type:numeric;not null" json:"subtotal"`
	CGST          decimal.Decimal    `gorm:"column:cgst;type:numeric;not null" json:"cgst"`
	SGST          decimal.Decimal    `gorm:"column:sgst;type:numeric;not null" json:"sgst"`
	Total         decimal.Decimal    `gorm:"type:numeric;not null" json:"total"`
	CGSTRate      decimal.Decimal    `gorm:"column:cgst_rate;type:numeric;not null" json:"cgst_rate"`
	SGSTRate      decimal.Decimal    `gorm:"column:sgst_rate;type:numeric;not null" json:"sgst_rate"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedByName string             `gorm:"size:255" json:"created_by_name"`
	CreatedAt     string             `gorm:"size:64;not null" json:"created_at"`
	BillDate      string             `gorm:"size:32;not null" json:"bill_date"`
	PaymentMethod enum.PaymentMethod `gorm:"size:16;not null" json:"payment_method"`
	OrderType     enum.OrderType     `gorm:"size:16;not null" json:"order_type"`
	CustomerName  *string            `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone *string            `gorm:"size:32" json:"customer_phone,omitempty"`
	SyncedToCloud bool               `gorm:"not null;default:false;index" json:"synced_to_cloud"`
	RecordedAt    time.Time          `gorm:"autoCreateTime" json:"-"`
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// ItemCount is the number of distinct lines on the bill.
func (b *Bill) ItemCount() int {
	return len(b.Items)
}

// BillItem is one cart line. Subtotal is always Price x Quantity.
type BillItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"-"`
	BillID     string          `gorm:"size:64;not null;index" json:"-"`
	Position   int             `gorm:"not null" json:"-"`
	MenuItemID string          `gorm:"size:64;not null" json:"menu_item_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Subtotal   decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
}

// BeforeCreate generates a UUID before creating a new line
func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
