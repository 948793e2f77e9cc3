package service

import (
	"context"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
)

// ReportService exposes read-only aggregation reports for administrators
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// PendingFees lists one page of outstanding ledger entries plus the total
// match count, optionally filtered by standard and academic year
func (s *ReportService) PendingFees(ctx context.Context, principal entity.Principal, params *repository.PendingFeeFilterParams) ([]repository.PendingFeeRow, int64, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, 0, err
	}
	return s.reportRepo.PendingFees(ctx, params)
}

// CollectionSummary aggregates payments over a date window broken down by
// payment method
func (s *ReportService) CollectionSummary(ctx context.Context, principal entity.Principal, startDate, endDate *time.Time) (*repository.CollectionSummary, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, apperror.NewValidationError("end_date must not be before start_date")
	}
	return s.reportRepo.CollectionSummary(ctx, startDate, endDate)
}

// ClassCollection aggregates dues, collections and balances per standard for
// one academic year
func (s *ReportService) ClassCollection(ctx context.Context, principal entity.Principal, academicYear string) ([]repository.ClassCollectionRow, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if academicYear == "" {
		return nil, apperror.NewValidationError("academic_year is required")
	}
	return s.reportRepo.ClassCollection(ctx, academicYear)
}
