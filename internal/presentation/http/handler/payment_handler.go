package handler

import (
	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/edusuite/school-fees-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles recording a payment against a fee
func (h *PaymentHandler) Record(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		FeeID         uuid.UUID       `json:"fee_id" binding:"required"`
		StudentID     uuid.UUID       `json:"student_id" binding:"required"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		PaymentDate   *string         `json:"payment_date"`
		PaymentMethod string          `json:"payment_method" binding:"required"`
		TransactionID *string         `json:"transaction_id"`
		Notes         *string         `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		response.BadRequest(c, "payment_date must be in YYYY-MM-DD format")
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), principal, &service.RecordPaymentInput{
		FeeID:         req.FeeID,
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// ListForStudent handles listing a student's payment history
func (h *PaymentHandler) ListForStudent(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		response.BadRequest(c, "Invalid student ID")
		return
	}

	payments, err := h.paymentService.ListForStudent(c.Request.Context(), principal, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// GetByReceipt handles looking up one payment by receipt number
func (h *PaymentHandler) GetByReceipt(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	payment, err := h.paymentService.GetByReceipt(c.Request.Context(), principal, c.Param("receipt_number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// ListRecent handles the admin payment feed
func (h *PaymentHandler) ListRecent(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	startDate, err := parseDate(optionalString(c.Query("start_date")))
	if err != nil {
		response.BadRequest(c, "start_date must be in YYYY-MM-DD format")
		return
	}
	endDate, err := parseDate(optionalString(c.Query("end_date")))
	if err != nil {
		response.BadRequest(c, "end_date must be in YYYY-MM-DD format")
		return
	}

	page := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(page); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	page.Validate()

	payments, total, err := h.paymentService.ListRecent(c.Request.Context(), principal, &repository.RecentPaymentFilterParams{
		Standard:   optionalString(c.Query("standard")),
		Division:   optionalString(c.Query("division")),
		StartDate:  startDate,
		EndDate:    endDate,
		Pagination: page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(payments, pagination.NewPagination(page.Page, page.PerPage, total))
	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// Delete handles deleting a payment and rolling back its ledger effect
func (h *PaymentHandler) Delete(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), principal, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
