package handler

import (
	"github.com/edusuite/school-fees-api/internal/application/service"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/internal/presentation/http/dto/response"
	"github.com/edusuite/school-fees-api/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// PendingFees handles the outstanding fees report
func (h *ReportHandler) PendingFees(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(page); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}
	page.Validate()

	rows, total, err := h.reportService.PendingFees(c.Request.Context(), principal, &repository.PendingFeeFilterParams{
		Standard:     optionalString(c.Query("standard")),
		AcademicYear: optionalString(c.Query("academic_year")),
		Pagination:   page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(rows, pagination.NewPagination(page.Page, page.PerPage, total))
	response.SuccessWithPagination(c, 200, "Pending fees retrieved successfully", result)
}

// CollectionSummary handles the payment collection summary report
func (h *ReportHandler) CollectionSummary(c *gin.Context) {
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

	summary, err := h.reportService.CollectionSummary(c.Request.Context(), principal, startDate, endDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Collection summary retrieved successfully", summary)
}

// ClassCollection handles the per-standard collection report
func (h *ReportHandler) ClassCollection(c *gin.Context) {
	principal, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	rows, err := h.reportService.ClassCollection(c.Request.Context(), principal, c.Query("academic_year"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Class collection retrieved successfully", rows)
}
