package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/pkg/apperror"
)

// Identity is the staff member raising the bill.
type Identity struct {
	ID   uuid.UUID
	Name string
}

// Metadata is what the cashier keys in next to the cart.
type Metadata struct {
	BillNumber    string
	BillDate      string
	CreatedAt     string
	PaymentMethod enum.PaymentMethod
	OrderType     enum.OrderType
	CustomerName  string
	CustomerPhone string
}

// AssembleInput gathers everything a bill is built from.
type AssembleInput struct {
	Items    []entity.BillItem
	Settings *entity.AppSettings
	User     *Identity
	Meta     Metadata
	Now      time.Time
}

// NewBillID derives a bill ID from the creation instant.
func NewBillID(now time.Time) string {
	return fmt.Sprintf("bill-%d", now.UnixMilli())
}

// Assemble validates the input and builds the bill record. The lines are
// copied, so later cart changes do not leak into the bill.
func Assemble(in AssembleInput) (*entity.Bill, error) {
	if len(in.Items) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	if in.Settings == nil {
		return nil, apperror.ErrMissingSettings
	}
	if in.User == nil {
		return nil, apperror.ErrMissingUser
	}

	items := make([]entity.BillItem, len(in.Items))
	for i, line := range in.Items {
		items[i] = entity.BillItem{
			Position:   i,
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
			Subtotal:   LineSubtotal(line.Price, line.Quantity),
		}
	}

	totals := CalculateTotals(items, RatesFromSettings(in.Settings))

	paymentMethod := in.Meta.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = enum.PaymentMethodCash
	}
	orderType := in.Meta.OrderType
	if orderType == "" {
		orderType = enum.OrderTypeDineIn
	}

	id := NewBillID(in.Now)
	for i := range items {
		items[i].BillID = id
	}

	return &entity.Bill{
		ID:            id,
		BillNumber:    in.Meta.BillNumber,
		Items:         items,
		Subtotal:      totals.Subtotal,
		CGST:          totals.CGST,
		SGST:          totals.SGST,
		Total:         totals.Total,
		CGSTRate:      totals.CGSTRate,
		SGSTRate:      totals.SGSTRate,
		CreatedBy:     in.User.ID,
		CreatedByName: in.User.Name,
		CreatedAt:     in.Meta.CreatedAt,
		BillDate:      in.Meta.BillDate,
		PaymentMethod: paymentMethod,
		OrderType:     orderType,
		CustomerName:  optional(in.Meta.CustomerName),
		CustomerPhone: optional(in.Meta.CustomerPhone),
		SyncedToCloud: false,
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Reassign moves the bill and its lines to a new ID, used when the first ID
// collided with an existing bill.
func Reassign(bill *entity.Bill, id string) {
	bill.ID = id
	for i := range bill.Items {
		bill.Items[i].BillID = id
	}
}
