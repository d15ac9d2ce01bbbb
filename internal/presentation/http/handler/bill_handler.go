package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/restobill-api/internal/application/service"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/restobill-api/internal/presentation/http/dto/response"
	"github.com/sangkips/restobill-api/pkg/apperror"
)

// BillHandler handles bill saving, lookup and receipts
type BillHandler struct {
	billingService    *service.BillingService
	billNumberService *service.BillNumberService
	printerService    *service.PrinterService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(
	billingService *service.BillingService,
	billNumberService *service.BillNumberService,
	printerService *service.PrinterService,
) *BillHandler {
	return &BillHandler{
		billingService:    billingService,
		billNumberService: billNumberService,
		printerService:    printerService,
	}
}

// Save handles saving a bill
// @Summary Save bill
// @Description Store the bill, commit its number and optionally print it
// @Tags bills
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.SaveBillRequest true "Bill"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /bills [post]
func (h *BillHandler) Save(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SaveBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var fieldErrors []apperror.FieldError
	paymentMethod, err := enum.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_method", Message: "Payment method must be cash, card or upi"})
	}
	orderType, err := enum.ParseOrderType(req.OrderType)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "order_type", Message: "Order type must be dine-in or parcel"})
	}
	if len(fieldErrors) > 0 {
		response.ValidationError(c, fieldErrors)
		return
	}

	lines := make([]service.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = service.LineInput{MenuItemID: item.MenuItemID, Quantity: item.Quantity}
	}

	output, err := h.billingService.SaveBill(c.Request.Context(), &service.SaveBillInput{
		UserID:        *userID,
		Lines:         lines,
		BillNumber:    req.BillNumber,
		BillDate:      req.BillDate,
		PaymentMethod: paymentMethod,
		OrderType:     orderType,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Print:         req.Print,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	data := gin.H{
		"bill":             output.Bill,
		"receipt":          output.Receipt,
		"next_bill_number": output.NextBillNumber,
	}
	if output.PrintWarning != "" {
		response.Warning(c, http.StatusCreated, "Bill saved but not printed", data, output.PrintWarning)
		return
	}
	response.Created(c, "Bill saved successfully", data)
}

// Get retrieves a stored bill
func (h *BillHandler) Get(c *gin.Context) {
	bill, err := h.billingService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Receipt renders a stored bill as an HTML receipt
func (h *BillHandler) Receipt(c *gin.Context) {
	html, err := h.printerService.ReceiptHTML(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// ReceiptPDF renders a stored bill as a PDF receipt
func (h *BillHandler) ReceiptPDF(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.printerService.ReceiptPDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Inline(c, id+".pdf", "application/pdf", pdf)
}

// Reprint sends a stored bill to the thermal printer again
func (h *BillHandler) Reprint(c *gin.Context) {
	receipt, err := h.printerService.ReprintBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		if receipt != nil {
			response.Warning(c, http.StatusOK, "Receipt generated but printing failed", gin.H{"receipt": receipt}, err.Error())
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", gin.H{"receipt": receipt})
}

// Numbers returns the current and next bill numbers
func (h *BillHandler) Numbers(c *gin.Context) {
	numbers, err := h.billNumberService.GetBillNumbers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill numbers retrieved successfully", numbers)
}

// OverrideNumber sets the number of the bill being prepared
func (h *BillHandler) OverrideNumber(c *gin.Context) {
	var req request.BillNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	numbers, err := h.billNumberService.OverrideBillNumber(c.Request.Context(), req.BillNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill number updated", numbers)
}
