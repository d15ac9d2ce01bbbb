package service

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/repository"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/sangkips/restobill-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

const (
	reportTableSize = 50
	rangeDateLayout = "2006-01-02"
)

// ReportService provides sales reports over stored bills
type ReportService struct {
	billRepo repository.BillRepository
	dates    *billdate.Parser
}

// NewReportService creates a new report service
func NewReportService(billRepo repository.BillRepository, dates *billdate.Parser) *ReportService {
	return &ReportService{
		billRepo: billRepo,
		dates:    dates,
	}
}

// ReportSummary represents the headline figures of a period
type ReportSummary struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	AverageBill decimal.Decimal `json:"average_bill"`
	TotalBills  int             `json:"total_bills"`
	ItemsSold   int             `json:"items_sold"`
}

// ItemSales represents how one dish sold in a period
type ItemSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Report represents a period report
type Report struct {
	Period   billdate.Period `json:"period"`
	Summary  ReportSummary   `json:"summary"`
	TopItems []ItemSales     `json:"top_items"`
	Bills    []entity.Bill   `json:"bills"`
}

// BillsForPeriod returns the bills of period, newest first
func (s *ReportService) BillsForPeriod(ctx context.Context, period billdate.Period) ([]entity.Bill, error) {
	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]entity.Bill, 0, len(bills))
	for _, bill := range bills {
		if s.dates.InPeriod(bill.CreatedAt, period) {
			filtered = append(filtered, bill)
		}
	}

	billdate.SortNewestFirst(s.dates, filtered, func(b entity.Bill) string { return b.CreatedAt })
	return filtered, nil
}

// GetReport returns the summary and the most recent bills of period
func (s *ReportService) GetReport(ctx context.Context, period billdate.Period) (*Report, error) {
	bills, err := s.BillsForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	table := bills
	if len(table) > reportTableSize {
		table = table[:reportTableSize]
	}

	return &Report{
		Period:   period,
		Summary:  Summarize(bills),
		TopItems: ItemBreakdown(bills),
		Bills:    table,
	}, nil
}

// ListBills pages through the bills of period, newest first
func (s *ReportService) ListBills(ctx context.Context, period billdate.Period, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, err := s.BillsForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(bills, params), nil
}

// Summarize totals bills. Items sold counts bill lines, not units.
func Summarize(bills []entity.Bill) ReportSummary {
	summary := ReportSummary{
		TotalSales:  decimal.Zero,
		AverageBill: decimal.Zero,
		TotalBills:  len(bills),
	}
	for _, bill := range bills {
		summary.TotalSales = summary.TotalSales.Add(bill.Total)
		summary.ItemsSold += bill.ItemCount()
	}
	if len(bills) > 0 {
		summary.AverageBill = summary.TotalSales.Div(decimal.NewFromInt(int64(len(bills))))
	}
	return summary
}

// ItemBreakdown aggregates units and revenue per dish, best sellers first
func ItemBreakdown(bills []entity.Bill) []ItemSales {
	byName := make(map[string]*ItemSales)
	for _, bill := range bills {
		for _, item := range bill.Items {
			agg, ok := byName[item.Name]
			if !ok {
				agg = &ItemSales{Name: item.Name, Revenue: decimal.Zero}
				byName[item.Name] = agg
			}
			agg.Quantity += item.Quantity
			agg.Revenue = agg.Revenue.Add(item.Subtotal)
		}
	}

	out := make([]ItemSales, 0, len(byName))
	for _, agg := range byName {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// BillsInRange returns bills stamped between the start of from and the end
// of to, both YYYY-MM-DD
func (s *ReportService) BillsInRange(ctx context.Context, from, to string) ([]entity.Bill, error) {
	if from == "" || to == "" {
		return nil, apperror.NewBadRequestError("Please select both dates")
	}

	loc := s.dates.CurrentTime().Location()
	start, err := time.ParseInLocation(rangeDateLayout, from, loc)
	if err != nil {
		return nil, apperror.NewBadRequestError("From date must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(rangeDateLayout, to, loc)
	if err != nil {
		return nil, apperror.NewBadRequestError("To date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperror.NewBadRequestError("From date must not be after to date")
	}
	end = end.AddDate(0, 0, 1)

	bills, err := s.billRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	inRange := make([]entity.Bill, 0)
	for _, bill := range bills {
		t := s.dates.Parse(bill.CreatedAt)
		if !billdate.IsValid(t) || t.Before(start) || !t.Before(end) {
			continue
		}
		inRange = append(inRange, bill)
	}

	if len(inRange) == 0 {
		return nil, apperror.NewAppError(http.StatusNotFound, "No bills found in selected date range")
	}

	// oldest first, the order they are printed in
	billdate.SortNewestFirst(s.dates, inRange, func(b entity.Bill) string { return b.CreatedAt })
	for i, j := 0, len(inRange)-1; i < j; i, j = i+1, j-1 {
		inRange[i], inRange[j] = inRange[j], inRange[i]
	}
	return inRange, nil
}
