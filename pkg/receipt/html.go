// Package receipt renders receipts as HTML documents sized for thermal paper
// and converts them to PDF through a headless Chrome.
package receipt

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sangkips/restobill-api/internal/domain/entity"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8" />
<title>{{.Title}}</title>
<style>
  @page { size: {{.Width}} auto; margin: 0; }
  body { font-family: Arial, sans-serif; font-size: 14px; font-weight: 600; margin: 0; }
  .receipt { width: {{.Width}}; padding: 10px; box-sizing: border-box; }
  .receipt + .receipt { page-break-before: always; break-before: page; }
  .header { text-align: center; border-bottom: 2px dashed #000; padding-bottom: 10px; }
  .shop-name { font-size: 20px; font-weight: 900; }
  .order-type { font-size: 18px; font-weight: 900; text-align: center; margin: 10px 0; padding: 5px 0; border: 2px solid #000; }
  .items { border-top: 1px dashed #000; border-bottom: 1px dashed #000; margin: 10px 0; padding: 10px 0; }
  .row { display: flex; justify-content: space-between; margin: 6px 0; }
  .row .name { flex: 2; }
  .row .qty { width: 40px; text-align: center; }
  .row .num { width: 70px; text-align: right; }
  .row.head { border-bottom: 1px solid #000; padding-bottom: 5px; }
  .grand { border-top: 2px solid #000; padding-top: 5px; font-size: 18px; font-weight: 900; }
  .footer { text-align: center; margin-top: 15px; font-size: 15px; font-weight: 900; }
</style>
</head>
<body>
{{range .Receipts}}
<div class="receipt">
  <div class="header">
    <div class="shop-name">{{.Header.ShopName}}</div>
    {{with .Header.Address}}<div>{{.}}</div>{{end}}
    {{with .Header.Phone}}<div>Ph: {{.}}</div>{{end}}
    {{with .Header.GSTIN}}<div>GSTIN: {{.}}</div>{{end}}
  </div>

  <div class="order-type">{{.Banner}}</div>

  <div>
    <div><strong>Bill No:</strong> {{.BillNumber}}</div>
    <div><strong>Date:</strong> {{.Date}}</div>
    {{with .Cashier}}<div><strong>Cashier:</strong> {{.}}</div>{{end}}
    {{with .Customer}}<div><strong>Customer:</strong> {{.}}</div>{{end}}
    {{with .CustomerPhone}}<div><strong>Phone:</strong> {{.}}</div>{{end}}
    <div><strong>Payment:</strong> {{.PaymentMethod}}</div>
  </div>

  <div class="items">
    <div class="row head">
      <div class="name">Item</div><div class="qty">Qty</div><div class="num">Price</div><div class="num">Amount</div>
    </div>
    {{range .Items}}
    <div class="row">
      <div class="name">{{.Name}}</div><div class="qty">{{.Quantity}}</div><div class="num">{{.Price}}</div><div class="num">{{.Amount}}</div>
    </div>
    {{end}}
  </div>

  <div>
    <div class="row"><span>Subtotal:</span><span>{{.Currency}}{{.Subtotal}}</span></div>
    <div class="row"><span>CGST ({{.CGSTRate}}%):</span><span>{{.Currency}}{{.CGST}}</span></div>
    <div class="row"><span>SGST ({{.SGSTRate}}%):</span><span>{{.Currency}}{{.SGST}}</span></div>
    <div class="row grand"><span>GRAND TOTAL:</span><span>{{.Currency}}{{.Total}}</span></div>
  </div>

  <div class="footer">Thank You! Visit Again!</div>
</div>
{{end}}
</body>
</html>
`

var tmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

type document struct {
	Title    string
	Width    string
	Receipts []entity.Receipt
}

// HTML renders a single receipt.
func HTML(r *entity.Receipt) ([]byte, error) {
	return render(document{
		Title:    "Bill " + r.BillNumber,
		Width:    widthOf(r.Width),
		Receipts: []entity.Receipt{*r},
	})
}

// RangeHTML renders several receipts into one document, one receipt per page.
func RangeHTML(title string, receipts []entity.Receipt) ([]byte, error) {
	if len(receipts) == 0 {
		return nil, fmt.Errorf("receipt: nothing to render")
	}
	return render(document{
		Title:    title,
		Width:    widthOf(receipts[0].Width),
		Receipts: receipts,
	})
}

func render(doc document) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("receipt: render html: %w", err)
	}
	return buf.Bytes(), nil
}

func widthOf(w string) string {
	if w == "58mm" {
		return w
	}
	return "80mm"
}
