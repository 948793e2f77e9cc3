package handler

import (
	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create handles generating an invoice over a student's fees
func (h *InvoiceHandler) Create(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		StudentID   uuid.UUID   `json:"student_id" binding:"required"`
		FeeIDs      []uuid.UUID `json:"fee_ids" binding:"required"`
		InvoiceDate *string     `json:"invoice_date"`
		DueDate     *string     `json:"due_date"`
		Notes       *string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		response.BadRequest(c, "invoice_date must be in YYYY-MM-DD format")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "due_date must be in YYYY-MM-DD format")
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), principal, &service.CreateInvoiceInput{
		StudentID:   req.StudentID,
		FeeIDs:      req.FeeIDs,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles retrieving an invoice by id or invoice number
func (h *InvoiceHandler) Get(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	detail, err := h.invoiceService.GetByIdentifier(c.Request.Context(), principal, c.Param("identifier"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", detail)
}

// ListForStudent handles listing a student's invoices
func (h *InvoiceHandler) ListForStudent(c *gin.Context) {
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

	invoices, err := h.invoiceService.ListForStudent(c.Request.Context(), principal, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoices retrieved successfully", invoices)
}

// ListByClass handles listing invoices for a class
func (h *InvoiceHandler) ListByClass(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := &repository.InvoiceFilterParams{
		Standard: optionalString(c.Param("standard")),
		Division: optionalString(c.Query("division")),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.InvoiceStatus(statusStr)
		if !status.Valid() {
			response.BadRequest(c, "Invalid invoice status")
			return
		}
		params.Status = &status
	}

	invoices, err := h.invoiceService.ListByClass(c.Request.Context(), principal, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoices retrieved successfully", invoices)
}

// UpdateStatus handles transitioning an invoice's status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), principal, id, enum.InvoiceStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice status updated successfully", invoice)
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), principal, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
