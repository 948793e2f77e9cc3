package repository

import (
	"context"
	"time"

	"github.com/edusuite/school-fees-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingFeeRow is one outstanding ledger entry joined with its student
type PendingFeeRow struct {
	FeeID        uuid.UUID       `json:"fee_id"`
	StudentID    uuid.UUID       `json:"student_id"`
	StudentName  string          `json:"student_name"`
	Standard     string          `json:"standard"`
	Division     string          `json:"division"`
	FeeName      string          `json:"fee_name"`
	AcademicYear string          `json:"academic_year"`
	Balance      decimal.Decimal `json:"balance"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Status       string          `json:"status"`
}

// MethodTotal is the collected amount for one payment method
type MethodTotal struct {
	PaymentMethod string          `json:"payment_method"`
	Amount        decimal.Decimal `json:"amount"`
	Count         int64           `json:"count"`
}

// CollectionSummary aggregates payments over a date window
type CollectionSummary struct {
	TotalCollected decimal.Decimal `json:"total_collected"`
	PaymentCount   int64           `json:"payment_count"`
	ByMethod       []MethodTotal   `json:"by_method"`
}

// ClassCollectionRow aggregates the ledger per standard
type ClassCollectionRow struct {
	Standard     string          `json:"standard"`
	StudentCount int64           `json:"student_count"`
	TotalDue     decimal.Decimal `json:"total_due"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// PendingFeeFilterParams filters and pages the pending fee report
type PendingFeeFilterParams struct {
	Standard     *string
	AcademicYear *string
	Pagination   *pagination.PaginationParams
}

// ReportRepository defines the interface for read-only aggregation queries
type ReportRepository interface {
	// PendingFees returns one page of outstanding entries plus the total
	// match count for pagination metadata.
	PendingFees(ctx context.Context, params *PendingFeeFilterParams) ([]PendingFeeRow, int64, error)
	CollectionSummary(ctx context.Context, startDate, endDate *time.Time) (*CollectionSummary, error)
	ClassCollection(ctx context.Context, academicYear string) ([]ClassCollectionRow, error)
}
