package entity

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	ShopName string `json:"shop_name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	GSTIN    string `json:"gstin,omitempty"`
}

// ReceiptItem is one printed line. Amounts are already formatted.
type ReceiptItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Amount   string `json:"amount"`
}

// Receipt is a value object composed from a bill and the shop settings at
// print time. It is not stored.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	Banner        string        `json:"banner"`
	BillNumber    string        `json:"bill_number"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Customer      string        `json:"customer,omitempty"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	PaymentMethod string        `json:"payment_method"`
	Items         []ReceiptItem `json:"items"`
	Currency      string        `json:"currency"`
	Subtotal      string        `json:"subtotal"`
	CGSTRate      string        `json:"cgst_rate"`
	CGST          string        `json:"cgst"`
	SGSTRate      string        `json:"sgst_rate"`
	SGST          string        `json:"sgst"`
	Total         string        `json:"total"`
	Width         string        `json:"width"`
	Columns       int           `json:"-"`
}
