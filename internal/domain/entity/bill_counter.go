package entity

import "time"

// BillCounterID is the primary key of the single counter row.
const BillCounterID uint = 1

// BillCounter persists the last issued bill number. ReservedNumber is set by
// a manual override and cleared once a bill is committed.
type BillCounter struct {
	ID             uint      `gorm:"primaryKey"`
	LastNumber     string    `gorm:"size:32;not null;default:'00'"`
	ReservedNumber string    `gorm:"size:32;not null;default:''"`
	UpdatedAt      time.Time
}

// TableName returns the table name for the BillCounter model
func (BillCounter) TableName() string {
	return "bill_counters"
}
