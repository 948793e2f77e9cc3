package handler

import (
	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeHandler handles fee ledger HTTP requests
type FeeHandler struct {
	feeService *service.FeeService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(feeService *service.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// Assign handles assigning a fee structure to one student
func (h *FeeHandler) Assign(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		StudentID      uuid.UUID `json:"student_id" binding:"required"`
		FeeStructureID uuid.UUID `json:"fee_structure_id" binding:"required"`
		AcademicYear   string    `json:"academic_year" binding:"required"`
		DueDate        *string   `json:"due_date"`
		Notes          *string   `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "due_date must be in YYYY-MM-DD format")
		return
	}

	fee, err := h.feeService.AssignFee(c.Request.Context(), principal, &service.AssignFeeInput{
		StudentID:      req.StudentID,
		FeeStructureID: req.FeeStructureID,
		AcademicYear:   req.AcademicYear,
		DueDate:        dueDate,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fee assigned successfully", fee)
}

// AddAdhoc handles creating a fee with no backing structure
func (h *FeeHandler) AddAdhoc(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		StudentID    uuid.UUID       `json:"student_id" binding:"required"`
		FeeType      string          `json:"fee_type" binding:"required"`
		TotalAmount  decimal.Decimal `json:"total_amount" binding:"required"`
		AcademicYear string          `json:"academic_year" binding:"required"`
		DueDate      *string         `json:"due_date"`
		Notes        *string         `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "due_date must be in YYYY-MM-DD format")
		return
	}

	fee, err := h.feeService.AddAdhocFee(c.Request.Context(), principal, &service.AddAdhocFeeInput{
		StudentID:    req.StudentID,
		FeeType:      req.FeeType,
		TotalAmount:  req.TotalAmount,
		AcademicYear: req.AcademicYear,
		DueDate:      dueDate,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fee created successfully", fee)
}

// AssignBulk handles assigning a fee structure to a whole class
func (h *FeeHandler) AssignBulk(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Standard       string    `json:"standard" binding:"required"`
		Division       *string   `json:"division"`
		FeeStructureID uuid.UUID `json:"fee_structure_id" binding:"required"`
		AcademicYear   string    `json:"academic_year" binding:"required"`
		DueDate        *string   `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "due_date must be in YYYY-MM-DD format")
		return
	}

	results, err := h.feeService.AssignFeeBulk(c.Request.Context(), principal, &service.BulkAssignInput{
		Standard:       req.Standard,
		Division:       req.Division,
		FeeStructureID: req.FeeStructureID,
		AcademicYear:   req.AcademicYear,
		DueDate:        dueDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bulk fee assignment processed", results)
}

// GetForStudent handles retrieving a student's fee ledger
func (h *FeeHandler) GetForStudent(c *gin.Context) {
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

	academicYear := optionalString(c.Query("academic_year"))

	ledger, err := h.feeService.GetForStudent(c.Request.Context(), principal, studentID, academicYear)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Student fees retrieved successfully", ledger)
}

// GetByClass handles the per-class fee listing
func (h *FeeHandler) GetByClass(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	standard := c.Param("standard")
	academicYear := c.Query("academic_year")
	if academicYear == "" {
		response.BadRequest(c, "academic_year query parameter is required")
		return
	}
	division := optionalString(c.Query("division"))

	summaries, err := h.feeService.GetByClass(c.Request.Context(), principal, standard, academicYear, division)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Class fees retrieved successfully", summaries)
}

// Update handles patching a fee ledger entry
func (h *FeeHandler) Update(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee ID")
		return
	}

	var req struct {
		TotalAmount *decimal.Decimal `json:"total_amount"`
		DueDate     *string          `json:"due_date"`
		Notes       *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		response.BadRequest(c, "due_date must be in YYYY-MM-DD format")
		return
	}

	fee, err := h.feeService.UpdateFee(c.Request.Context(), principal, id, &service.UpdateFeeInput{
		TotalAmount: req.TotalAmount,
		DueDate:     dueDate,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee updated successfully", fee)
}

// Delete handles deleting a fee ledger entry
func (h *FeeHandler) Delete(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee ID")
		return
	}

	if err := h.feeService.DeleteFee(c.Request.Context(), principal, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
