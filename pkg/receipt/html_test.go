package receipt

import (
	"strings"
	"testing"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReceipt() entity.Receipt {
	return entity.Receipt{
		Header:        entity.ReceiptHeader{ShopName: "Annapoorna", Address: "12 Market Road", GSTIN: "33ABCDE1234F1Z5"},
		Banner:        "PARCEL",
		BillNumber:    "07",
		Date:          "15/3/2024, 10:30:00 pm",
		Cashier:       "Ravi",
		Customer:      "<script>alert(1)</script>",
		PaymentMethod: "UPI",
		Items: []entity.ReceiptItem{
			{Name: "Gobi Manchurian", Quantity: 2, Price: "100.00", Amount: "200.00"},
		},
		Currency: "₹",
		Subtotal: "200.00",
		CGSTRate: "2.5",
		CGST:     "5.00",
		SGSTRate: "2.5",
		SGST:     "5.00",
		Total:    "210.00",
		Width:    "58mm",
	}
}

func TestHTML(t *testing.T) {
	r := sampleReceipt()
	out, err := HTML(&r)
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "Annapoorna")
	assert.Contains(t, html, "GSTIN: 33ABCDE1234F1Z5")
	assert.Contains(t, html, "PARCEL")
	assert.Contains(t, html, "₹210.00")
	assert.Contains(t, html, "width: 58mm")
	assert.Contains(t, html, "Thank You! Visit Again!")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestRangeHTML(t *testing.T) {
	a, b := sampleReceipt(), sampleReceipt()
	b.BillNumber = "08"

	out, err := RangeHTML("Bills", []entity.Receipt{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(out), `<div class="receipt">`))

	_, err = RangeHTML("Bills", nil)
	assert.Error(t, err)
}

func TestWidthDefaultsTo80mm(t *testing.T) {
	assert.Equal(t, "80mm", widthOf(""))
	assert.Equal(t, "58mm", widthOf("58mm"))
}
