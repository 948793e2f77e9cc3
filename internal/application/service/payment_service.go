package service

import (
	"context"
	"fmt"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
	"github.com/edusuite/school-fees-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService handles payment recording against the fee ledger
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	feeRepo     repository.FeeRepository
	access      *studentAccess
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	feeRepo repository.FeeRepository,
	parentLinkRepo repository.ParentLinkRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		feeRepo:     feeRepo,
		access:      newStudentAccess(parentLinkRepo),
	}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	FeeID         uuid.UUID
	StudentID     uuid.UUID
	Amount        decimal.Decimal
	PaymentDate   *time.Time
	PaymentMethod string
	TransactionID *string
	Notes         *string
}

// RecordPayment appends an immutable receipt against a fee. The balance check
// and the ledger update happen atomically in the repository, so a payment can
// never take a fee's balance below zero even under concurrent requests.
func (s *PaymentService) RecordPayment(ctx context.Context, principal entity.Principal, input *RecordPaymentInput) (*entity.Payment, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.FeeID == uuid.Nil || input.StudentID == uuid.Nil || input.PaymentMethod == "" {
		return nil, apperror.NewValidationError("fee_id, student_id, amount and payment_method are required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.NewValidationError("amount must be greater than zero")
	}

	fee, err := s.feeRepo.GetForStudentByID(ctx, input.FeeID, input.StudentID)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, apperror.NewNotFoundError("Fee")
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	payment := &entity.Payment{
		FeeID:         input.FeeID,
		StudentID:     input.StudentID,
		Amount:        input.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: input.PaymentMethod,
		TransactionID: input.TransactionID,
		Notes:         input.Notes,
		ReceiptNumber: utils.NewReceiptNumber(),
		CreatedBy:     principal.ID,
	}

	outcome, err := s.paymentRepo.Record(ctx, payment)
	if err != nil {
		return nil, err
	}
	if !outcome.Applied {
		return nil, apperror.NewValidationError(fmt.Sprintf(
			"Payment amount %s exceeds the outstanding balance %s",
			input.Amount.StringFixed(2), outcome.CurrentBalance.StringFixed(2)))
	}

	return payment, nil
}

// ListForStudent returns the student's payments newest-first
func (s *PaymentService) ListForStudent(ctx context.Context, principal entity.Principal, studentID uuid.UUID) ([]entity.Payment, error) {
	if err := s.access.canView(ctx, principal, studentID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListForStudent(ctx, studentID)
}

// GetByReceipt looks up a payment by its receipt number, scoped to callers
// allowed to see the payment's student
func (s *PaymentService) GetByReceipt(ctx context.Context, principal entity.Principal, receiptNumber string) (*entity.Payment, error) {
	if receiptNumber == "" {
		return nil, apperror.NewValidationError("receipt_number is required")
	}

	payment, err := s.paymentRepo.GetByReceipt(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	if err := s.access.canView(ctx, principal, payment.StudentID); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListRecent returns one page of the admin dashboard payment feed plus the
// total match count
func (s *PaymentService) ListRecent(ctx context.Context, principal entity.Principal, params *repository.RecentPaymentFilterParams) ([]entity.Payment, int64, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, 0, err
	}
	return s.paymentRepo.ListRecent(ctx, params)
}

// DeletePayment removes a receipt and recomputes the affected fee's ledger
// state from the surviving payments
func (s *PaymentService) DeletePayment(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NewNotFoundError("Payment")
	}

	return s.paymentRepo.Delete(ctx, id)
}
