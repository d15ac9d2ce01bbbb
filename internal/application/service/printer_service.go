package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/sangkips/restobill-api/pkg/logger"
	"github.com/sangkips/restobill-api/pkg/printer"
	"github.com/sangkips/restobill-api/pkg/receipt"
	"github.com/shopspring/decimal"
)

// receiptDateLocale matches the stamp the counter staff are used to reading.
const receiptDateLocale = "en-IN"

// PDFRenderer turns receipt HTML into a PDF on paper of the given width
type PDFRenderer interface {
	Render(ctx context.Context, html []byte, widthInches float64) ([]byte, error)
}

// PrinterService handles receipt formatting and printing.
type PrinterService struct {
	printer      printer.Printer
	printerType  string
	singlePDF    PDFRenderer
	rangePDF     PDFRenderer
	settingsRepo repository.SettingsRepository
	billRepo     repository.BillRepository
	dates        *billdate.Parser
	log          *logger.Logger
}

// NewPrinterService creates a new printer service. singlePDF renders one
// receipt, rangePDF renders date range batches.
func NewPrinterService(
	p printer.Printer,
	printerType string,
	singlePDF PDFRenderer,
	rangePDF PDFRenderer,
	settingsRepo repository.SettingsRepository,
	billRepo repository.BillRepository,
	dates *billdate.Parser,
	log *logger.Logger,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		printerType:  printerType,
		singlePDF:    singlePDF,
		rangePDF:     rangePDF,
		settingsRepo: settingsRepo,
		billRepo:     billRepo,
		dates:        dates,
		log:          log.WithComponent("printer"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BuildReceipt composes the printable receipt for bill under settings.
func (s *PrinterService) BuildReceipt(bill *entity.Bill, settings *entity.AppSettings) *entity.Receipt {
	date := bill.CreatedAt
	if t := s.dates.Parse(bill.CreatedAt); billdate.IsValid(t) {
		date = s.dates.Format(t, billdate.ModeDateTime, receiptDateLocale)
	}

	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: settings.ShopName,
			Address:  settings.ShopAddress,
		},
		Banner:        bill.OrderType.Banner(),
		BillNumber:    bill.BillNumber,
		Date:          date,
		Cashier:       bill.CreatedByName,
		PaymentMethod: bill.PaymentMethod.Label(),
		Currency:      settings.Currency,
		Subtotal:      money(bill.Subtotal),
		CGSTRate:      bill.CGSTRate.String(),
		CGST:          money(bill.CGST),
		SGSTRate:      bill.SGSTRate.String(),
		SGST:          money(bill.SGST),
		Total:         money(bill.Total),
		Width:         settings.PrinterFormat.Width(),
		Columns:       settings.PrinterFormat.Columns(),
	}
	if settings.ShopPhone != nil {
		r.Header.Phone = *settings.ShopPhone
	}
	if settings.ShopGST != nil {
		r.Header.GSTIN = *settings.ShopGST
	}
	if bill.CustomerName != nil {
		r.Customer = *bill.CustomerName
	}
	if bill.CustomerPhone != nil {
		r.CustomerPhone = *bill.CustomerPhone
	}

	for _, item := range bill.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    money(item.Price),
			Amount:   money(item.Subtotal),
		})
	}

	return r
}

// thermalCurrency swaps symbols the printer code page cannot draw.
func thermalCurrency(symbol string) string {
	if symbol == "₹" || symbol == "" {
		return "Rs."
	}
	return symbol
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(r.Columns)
	cur := thermalCurrency(r.Currency)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.TextF("Ph: %s", r.Header.Phone)
	}
	if r.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", r.Header.GSTIN)
	}

	doc.Separator('=').
		SetBold(true).
		SetFontSize(printer.FontTall).
		Text(r.Banner).
		SetFontSize(printer.FontNormal).
		SetBold(false).
		Separator('=')

	// Bill info
	doc.SetAlign(printer.AlignLeft).
		KeyValue("Bill No:", r.BillNumber).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.CustomerPhone != "" {
		doc.KeyValue("Phone:", r.CustomerPhone)
	}
	doc.KeyValue("Payment:", r.PaymentMethod)

	doc.Separator('-')

	// Items
	doc.ItemHeader().Separator('-')
	for _, item := range r.Items {
		doc.ItemRow(item.Name, fmt.Sprintf("%d", item.Quantity), item.Price, item.Amount)
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", cur+r.Subtotal).
		KeyValue(fmt.Sprintf("CGST (%s%%):", r.CGSTRate), cur+r.CGST).
		KeyValue(fmt.Sprintf("SGST (%s%%):", r.SGSTRate), cur+r.SGST).
		Separator('-').
		SetBold(true).
		KeyValue("GRAND TOTAL:", cur+r.Total).
		SetBold(false)

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		SetBold(true).
		Text("Thank You! Visit Again!").
		SetBold(false).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func (s *PrinterService) send(ctx context.Context, data []byte) error {
	if err := s.printer.Print(ctx, data); err != nil {
		if errors.Is(err, printer.ErrNoPrinter) {
			return apperror.ErrPrinterUnavailable
		}
		s.log.Warn("print failed", "error", err)
		return apperror.ErrPrinterUnavailable
	}
	return nil
}

// PrintBill prints bill on the thermal printer. The receipt is returned even
// when printing fails so the caller can still show it.
func (s *PrinterService) PrintBill(ctx context.Context, bill *entity.Bill, settings *entity.AppSettings) (*entity.Receipt, error) {
	r := s.BuildReceipt(bill, settings)
	if err := s.send(ctx, FormatReceipt(r)); err != nil {
		return r, err
	}
	return r, nil
}

func (s *PrinterService) loadBill(ctx context.Context, billID string) (*entity.Bill, *entity.AppSettings, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, nil, err
	}
	if bill == nil {
		return nil, nil, apperror.NewNotFoundError("Bill")
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	if settings == nil {
		return nil, nil, apperror.ErrMissingSettings
	}
	return bill, settings, nil
}

// ReprintBill prints a stored bill again.
func (s *PrinterService) ReprintBill(ctx context.Context, billID string) (*entity.Receipt, error) {
	bill, settings, err := s.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return s.PrintBill(ctx, bill, settings)
}

// ReceiptHTML renders a stored bill as an HTML receipt.
func (s *PrinterService) ReceiptHTML(ctx context.Context, billID string) ([]byte, error) {
	bill, settings, err := s.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return receipt.HTML(s.BuildReceipt(bill, settings))
}

// ReceiptPDF renders a stored bill as a PDF receipt.
func (s *PrinterService) ReceiptPDF(ctx context.Context, billID string) ([]byte, error) {
	bill, settings, err := s.loadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	html, err := receipt.HTML(s.BuildReceipt(bill, settings))
	if err != nil {
		return nil, err
	}
	return s.singlePDF.Render(ctx, html, settings.PrinterFormat.Inches())
}

// RangePDF renders the bills of a date range into one PDF, one receipt per
// page.
func (s *PrinterService) RangePDF(ctx context.Context, from, to string, bills []entity.Bill, settings *entity.AppSettings) ([]byte, error) {
	receipts := make([]entity.Receipt, len(bills))
	for i := range bills {
		receipts[i] = *s.BuildReceipt(&bills[i], settings)
	}
	html, err := receipt.RangeHTML(rangeTitle(from, to), receipts)
	if err != nil {
		return nil, err
	}
	return s.rangePDF.Render(ctx, html, settings.PrinterFormat.Inches())
}

// PrintRange sends bills to the thermal printer one after another. It stops
// at the first failure and reports how many were printed.
func (s *PrinterService) PrintRange(ctx context.Context, bills []entity.Bill, settings *entity.AppSettings) (int, error) {
	for i := range bills {
		r := s.BuildReceipt(&bills[i], settings)
		if err := s.send(ctx, FormatReceipt(r)); err != nil {
			return i, err
		}
	}
	return len(bills), nil
}

// TestPrint sends a sample receipt to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	format := enum.PrinterFormat80mm
	if settings != nil {
		format = settings.PrinterFormat
	}

	r := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: "PRINTER TEST",
			Address:  "Test Address",
		},
		Banner:        enum.OrderTypeDineIn.Banner(),
		BillNumber:    "00",
		Date:          s.dates.Format(s.dates.CurrentTime(), billdate.ModeDateTime, receiptDateLocale),
		Cashier:       "System",
		PaymentMethod: enum.PaymentMethodCash.Label(),
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, Price: "10.00", Amount: "10.00"},
			{Name: "Test Item 2 With A Long Name", Quantity: 2, Price: "5.00", Amount: "10.00"},
		},
		Currency: "₹",
		Subtotal: "20.00",
		CGSTRate: "2.5",
		CGST:     "0.50",
		SGSTRate: "2.5",
		SGST:     "0.50",
		Total:    "21.00",
		Width:    format.Width(),
		Columns:  format.Columns(),
	}

	if err := s.send(ctx, FormatReceipt(r)); err != nil {
		return r, fmt.Errorf("test print failed: %w", err)
	}
	return r, nil
}

// rangeTitle names a date range document.
func rangeTitle(from, to string) string {
	return fmt.Sprintf("Bills %s to %s", from, to)
}
