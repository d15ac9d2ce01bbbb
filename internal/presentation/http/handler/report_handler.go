package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/application/service"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/restobill-api/pkg/apperror"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/sangkips/restobill-api/pkg/pagination"
)

// maxImportSize caps spreadsheet uploads.
const maxImportSize = 10 << 20

// ReportHandler handles sales reports, exports and range printing
type ReportHandler struct {
	reportService   *service.ReportService
	exportService   *service.ExportService
	printerService  *service.PrinterService
	settingsService *service.SettingsService
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reportService *service.ReportService,
	exportService *service.ExportService,
	printerService *service.PrinterService,
	settingsService *service.SettingsService,
) *ReportHandler {
	return &ReportHandler{
		reportService:   reportService,
		exportService:   exportService,
		printerService:  printerService,
		settingsService: settingsService,
	}
}

func bindPeriod(c *gin.Context) (*request.ReportRequest, billdate.Period, bool) {
	var req request.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, "", false
	}
	period, err := billdate.ParsePeriod(req.Period)
	if err != nil {
		response.BadRequest(c, "Period must be today, week, month or all")
		return nil, "", false
	}
	return &req, period, true
}

// Get returns the summary, best sellers and latest bills of a period
func (h *ReportHandler) Get(c *gin.Context) {
	_, period, ok := bindPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report retrieved successfully", report)
}

// ListBills pages through the bills of a period, newest first
func (h *ReportHandler) ListBills(c *gin.Context) {
	req, period, ok := bindPeriod(c)
	if !ok {
		return
	}

	result, err := h.reportService.ListBills(c.Request.Context(), period, &pagination.PaginationParams{
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Bills retrieved successfully", result)
}

// Export downloads the bills of a period as CSV or Excel
func (h *ReportHandler) Export(c *gin.Context) {
	req, period, ok := bindPeriod(c)
	if !ok {
		return
	}
	format, err := service.ParseExportFormat(req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	bills, err := h.reportService.BillsForPeriod(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exportService.Export(bills, period, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, file.Name, file.ContentType, file.Data)
}

// Import parses an uploaded workbook and echoes its rows. Nothing is stored.
func (h *ReportHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Please choose an Excel file")
		return
	}
	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Invalid Excel file")
		return
	}
	defer f.Close()

	result, err := h.exportService.ImportExcel(f)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Imported %d rows", result.Count), result)
}

// PrintRange renders every bill between two dates, oldest first, as one PDF
// or sends them to the thermal printer
func (h *ReportHandler) PrintRange(c *gin.Context) {
	var req request.PrintRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	bills, err := h.reportService.BillsInRange(ctx, req.FromDate, req.ToDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	settings, err := h.settingsService.GetSettings(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Target == "printer" {
		printed, err := h.printerService.PrintRange(ctx, bills, settings)
		if err != nil {
			response.Warning(c, http.StatusOK, fmt.Sprintf("Printed %d of %d bills", printed, len(bills)),
				gin.H{"printed": printed, "total": len(bills)}, apperror.GetAppError(err).Message)
			return
		}
		response.OK(c, fmt.Sprintf("Printed %d bills", printed), gin.H{"printed": printed, "total": len(bills)})
		return
	}

	pdf, err := h.printerService.RangePDF(ctx, req.FromDate, req.ToDate, bills, settings)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Inline(c, fmt.Sprintf("bills-%s-to-%s.pdf", req.FromDate, req.ToDate), "application/pdf", pdf)
}
