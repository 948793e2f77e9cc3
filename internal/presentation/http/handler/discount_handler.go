package handler

import (
	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountHandler handles discount HTTP requests
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// Apply handles applying a discount to a student
func (h *DiscountHandler) Apply(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		StudentID     uuid.UUID       `json:"student_id" binding:"required"`
		FeeID         *uuid.UUID      `json:"fee_id"`
		DiscountName  string          `json:"discount_name" binding:"required"`
		DiscountType  string          `json:"discount_type" binding:"required"`
		DiscountValue decimal.Decimal `json:"discount_value" binding:"required"`
		AcademicYear  string          `json:"academic_year" binding:"required"`
		Reason        *string         `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	discount, err := h.discountService.ApplyDiscount(c.Request.Context(), principal, &service.ApplyDiscountInput{
		StudentID:     req.StudentID,
		FeeID:         req.FeeID,
		DiscountName:  req.DiscountName,
		DiscountType:  enum.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		AcademicYear:  req.AcademicYear,
		Reason:        req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Discount applied successfully", discount)
}

// ListForStudent handles listing a student's discounts
func (h *DiscountHandler) ListForStudent(c *gin.Context) {
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

	discounts, err := h.discountService.ListForStudent(c.Request.Context(), principal, studentID, academicYear)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discounts retrieved successfully", discounts)
}

// Delete handles removing a discount
func (h *DiscountHandler) Delete(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	if err := h.discountService.DeleteDiscount(c.Request.Context(), principal, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
