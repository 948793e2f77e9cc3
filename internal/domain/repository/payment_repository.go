package repository

import (
	"context"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordOutcome reports the result of a payment attempt. When Applied is
// false the ledger was left untouched and CurrentBalance carries the fee's
// balance at the time of rejection.
type RecordOutcome struct {
	Applied        bool
	CurrentBalance decimal.Decimal
}

// RecentPaymentFilterParams filters and pages the admin dashboard payment
// feed
type RecentPaymentFilterParams struct {
	Standard   *string
	Division   *string
	StartDate  *time.Time
	EndDate    *time.Time
	Pagination *pagination.PaginationParams
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Record inserts the payment and applies it to the fee ledger in one
	// transaction. The balance check and the ledger update are a single
	// conditional statement, so two concurrent payments can never overdraw
	// the fee. A missing fee yields Applied=false with a zero balance and no
	// error; callers distinguish that case by loading the fee first.
	Record(ctx context.Context, payment *entity.Payment) (*RecordOutcome, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	GetByReceipt(ctx context.Context, receiptNumber string) (*entity.Payment, error)
	// ListForStudent returns the student's payments newest-first with fee,
	// structure and creator preloaded.
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Payment, error)
	// ListByFeeIDs returns payments against any of the given fees.
	ListByFeeIDs(ctx context.Context, feeIDs []uuid.UUID) ([]entity.Payment, error)
	// ListRecent returns one page of the payment feed plus the total match
	// count for pagination metadata.
	ListRecent(ctx context.Context, params *RecentPaymentFilterParams) ([]entity.Payment, int64, error)
	// Delete removes the payment and recomputes the affected fee's
	// paid/balance/status from the surviving payments, in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}
