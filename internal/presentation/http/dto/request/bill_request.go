package request

// BillLineRequest is one line of a bill save. Prices come from the menu.
type BillLineRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// SaveBillRequest represents a bill save. With no items the caller's cart
// is billed.
type SaveBillRequest struct {
	Items         []BillLineRequest `json:"items" binding:"omitempty,dive"`
	BillNumber    string            `json:"bill_number"`
	BillDate      string            `json:"bill_date"`
	PaymentMethod string            `json:"payment_method"`
	OrderType     string            `json:"order_type"`
	CustomerName  string            `json:"customer_name" binding:"max=255"`
	CustomerPhone string            `json:"customer_phone" binding:"max=32"`
	Print         bool              `json:"print"`
}

// BillNumberRequest overrides the number of the bill being prepared
type BillNumberRequest struct {
	BillNumber string `json:"bill_number" binding:"required"`
}

// ReportRequest selects a reporting period
type ReportRequest struct {
	Period  string `form:"period"`
	Format  string `form:"format"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// PrintRangeRequest selects bills between two YYYY-MM-DD dates
type PrintRangeRequest struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
	Target   string `json:"target" binding:"omitempty,oneof=pdf printer"`
}
