package enum

import (
	"database/sql/driver"
	"fmt"
)

// PrinterFormat is the thermal paper roll width
type PrinterFormat string

const (
	PrinterFormat58mm PrinterFormat = "58mm"
	PrinterFormat80mm PrinterFormat = "80mm"
)

// ParsePrinterFormat validates a paper width. Empty input means 80mm.
func ParsePrinterFormat(s string) (PrinterFormat, error) {
	switch f := PrinterFormat(s); f {
	case "":
		return PrinterFormat80mm, nil
	case PrinterFormat58mm, PrinterFormat80mm:
		return f, nil
	default:
		return "", fmt.Errorf("unknown printer format %q", s)
	}
}

// Columns returns the character width of a text line on this paper.
func (f PrinterFormat) Columns() int {
	if f == PrinterFormat58mm {
		return 32
	}
	return 48
}

// Width returns the CSS width used for HTML and PDF receipts.
func (f PrinterFormat) Width() string {
	if f == PrinterFormat58mm {
		return "58mm"
	}
	return "80mm"
}

// Inches returns the paper width for PDF rendering.
func (f PrinterFormat) Inches() float64 {
	if f == PrinterFormat58mm {
		return 2.28
	}
	return 3.15
}

func (f PrinterFormat) Value() (driver.Value, error) {
	return string(f), nil
}

func (f *PrinterFormat) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*f = PrinterFormat80mm
	case string:
		*f = PrinterFormat(v)
	case []byte:
		*f = PrinterFormat(v)
	}
	return nil
}
