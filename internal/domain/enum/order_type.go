package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderType tells the kitchen whether the food is eaten in or packed
type OrderType string

const (
	OrderTypeDineIn OrderType = "dine-in"
	OrderTypeParcel OrderType = "parcel"
)

// ParseOrderType accepts any casing. Empty input means dine-in.
func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return OrderTypeDineIn, nil
	case OrderTypeDineIn, OrderTypeParcel:
		return t, nil
	default:
		return "", fmt.Errorf("unknown order type %q", s)
	}
}

// Banner is the heading printed across the top of the receipt.
func (t OrderType) Banner() string {
	if t == OrderTypeParcel {
		return "PARCEL"
	}
	return "DINE-IN"
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseOrderType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t OrderType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *OrderType) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = OrderTypeDineIn
	case string:
		*t = OrderType(v)
	case []byte:
		*t = OrderType(v)
	}
	return nil
}
