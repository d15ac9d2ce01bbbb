package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the export file type
type ExportFormat string

const (
	ExportCSV   ExportFormat = "csv"
	ExportExcel ExportFormat = "xlsx"

	exportSheet = "Bills"
)

var exportHeader = []string{
	"Bill No", "Date", "Customer", "Phone", "Items",
	"Subtotal", "CGST", "SGST", "Total", "Payment", "Order Type", "Cashier",
}

// ParseExportFormat validates a format name. Empty input means Excel.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "excel":
		return ExportExcel, nil
	case ExportCSV, ExportExcel:
		return f, nil
	default:
		return "", apperror.NewBadRequestError("Format must be csv or xlsx")
	}
}

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ExportService writes bills to spreadsheets and reads them back
type ExportService struct {
	now func() time.Time
}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

// ExportFile is a rendered export ready to download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Export renders bills in format, naming the file after period
func (s *ExportService) Export(bills []entity.Bill, period billdate.Period, format ExportFormat) (*ExportFile, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case ExportCSV:
		data, err = s.CSV(bills)
	default:
		data, err = s.Excel(bills)
	}
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Name:        fmt.Sprintf("bills-%s-%d.%s", period, s.now().UnixMilli(), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func itemsSummary(bill *entity.Bill) string {
	parts := make([]string, len(bill.Items))
	for i, item := range bill.Items {
		parts[i] = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
	}
	return strings.Join(parts, "; ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// spreadsheetText stops spreadsheet apps from reading a cell as a formula.
func spreadsheetText(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// CSV renders bills as comma separated values with a header row
func (s *ExportService) CSV(bills []entity.Bill) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range bills {
		b := &bills[i]
		record := []string{
			b.BillNumber,
			b.CreatedAt,
			spreadsheetText(deref(b.CustomerName)),
			spreadsheetText(deref(b.CustomerPhone)),
			spreadsheetText(itemsSummary(b)),
			money(b.Subtotal),
			money(b.CGST),
			money(b.SGST),
			money(b.Total),
			b.PaymentMethod.Label(),
			string(b.OrderType),
			spreadsheetText(b.CreatedByName),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Excel renders bills as a single sheet workbook
func (s *ExportService) Excel(bills []entity.Bill) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i := range bills {
		b := &bills[i]
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			b.BillNumber,
			b.CreatedAt,
			spreadsheetText(deref(b.CustomerName)),
			spreadsheetText(deref(b.CustomerPhone)),
			spreadsheetText(itemsSummary(b)),
			b.Subtotal.Round(2).InexactFloat64(),
			b.CGST.Round(2).InexactFloat64(),
			b.SGST.Round(2).InexactFloat64(),
			b.Total.Round(2).InexactFloat64(),
			b.PaymentMethod.Label(),
			string(b.OrderType),
			spreadsheetText(b.CreatedByName),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "L", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "E", "E", 48); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportResult is a parsed spreadsheet. Nothing is stored.
type ImportResult struct {
	Sheet string              `json:"sheet"`
	Rows  []map[string]string `json:"rows"`
	Count int                 `json:"count"`
}

// ImportExcel reads the first sheet of a workbook. The first row names the
// columns and every following non-blank row becomes a record keyed by them.
func (s *ExportService) ImportExcel(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewBadRequestError("Invalid Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid Excel file")
	}

	result := &ImportResult{Sheet: sheets[0], Rows: []map[string]string{}}
	if len(rows) == 0 {
		return result, nil
	}

	header := rows[0]
	for _, row := range rows[1:] {
		record := make(map[string]string)
		for i, value := range row {
			if i >= len(header) || header[i] == "" || value == "" {
				continue
			}
			record[header[i]] = value
		}
		if len(record) > 0 {
			result.Rows = append(result.Rows, record)
		}
	}
	result.Count = len(result.Rows)
	return result, nil
}
