package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod represents how the customer settled the bill
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// ParsePaymentMethod accepts any casing. Empty input means cash.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return PaymentMethodCash, nil
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI:
		return m, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// Label is the upper-case form printed on receipts and exports.
func (m PaymentMethod) Label() string {
	return strings.ToUpper(string(m))
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = PaymentMethodCash
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(v)
	}
	return nil
}
