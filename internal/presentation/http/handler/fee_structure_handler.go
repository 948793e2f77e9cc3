package handler

import (
	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeStructureHandler handles fee structure HTTP requests
type FeeStructureHandler struct {
	feeStructureService *service.FeeStructureService
}

// NewFeeStructureHandler creates a new fee structure handler
func NewFeeStructureHandler(feeStructureService *service.FeeStructureService) *FeeStructureHandler {
	return &FeeStructureHandler{feeStructureService: feeStructureService}
}

// Create handles creating a fee structure
func (h *FeeStructureHandler) Create(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Standard     string          `json:"standard" binding:"required"`
		FeeName      string          `json:"fee_name" binding:"required"`
		Amount       decimal.Decimal `json:"amount" binding:"required"`
		AcademicYear string          `json:"academic_year" binding:"required"`
		DueDate      *string         `json:"due_date"`
		IsMandatory  *bool           `json:"is_mandatory"`
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

	structure, err := h.feeStructureService.CreateFeeStructure(c.Request.Context(), principal, &service.CreateFeeStructureInput{
		Standard:     req.Standard,
		FeeName:      req.FeeName,
		Amount:       req.Amount,
		AcademicYear: req.AcademicYear,
		DueDate:      dueDate,
		IsMandatory:  req.IsMandatory,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Fee structure created successfully", structure)
}

// List handles listing all fee structures
func (h *FeeStructureHandler) List(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	structures, err := h.feeStructureService.ListFeeStructures(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee structures retrieved successfully", structures)
}

// ListByStandard handles listing fee structures for one standard
func (h *FeeStructureHandler) ListByStandard(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	standard := c.Param("standard")
	academicYear := optionalString(c.Query("academic_year"))

	structures, err := h.feeStructureService.ListByStandard(c.Request.Context(), principal, standard, academicYear)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee structures retrieved successfully", structures)
}

// Update handles patching a fee structure
func (h *FeeStructureHandler) Update(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee structure ID")
		return
	}

	var req struct {
		FeeName      *string          `json:"fee_name"`
		Amount       *decimal.Decimal `json:"amount"`
		AcademicYear *string          `json:"academic_year"`
		DueDate      *string          `json:"due_date"`
		IsMandatory  *bool            `json:"is_mandatory"`
		IsActive     *bool            `json:"is_active"`
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

	structure, err := h.feeStructureService.UpdateFeeStructure(c.Request.Context(), principal, id, &service.UpdateFeeStructureInput{
		FeeName:      req.FeeName,
		Amount:       req.Amount,
		AcademicYear: req.AcademicYear,
		DueDate:      dueDate,
		IsMandatory:  req.IsMandatory,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fee structure updated successfully", structure)
}

// Delete handles deleting a fee structure
func (h *FeeStructureHandler) Delete(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid fee structure ID")
		return
	}

	if err := h.feeStructureService.DeleteFeeStructure(c.Request.Context(), principal, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
