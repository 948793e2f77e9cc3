package service

import (
	"context"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountService handles discount administration
type DiscountService struct {
	discountRepo repository.DiscountRepository
	feeRepo      repository.FeeRepository
	access       *studentAccess
}

// NewDiscountService creates a new discount service
func NewDiscountService(
	discountRepo repository.DiscountRepository,
	feeRepo repository.FeeRepository,
	parentLinkRepo repository.ParentLinkRepository,
) *DiscountService {
	return &DiscountService{
		discountRepo: discountRepo,
		feeRepo:      feeRepo,
		access:       newStudentAccess(parentLinkRepo),
	}
}

// ApplyDiscountInput represents the apply discount input
type ApplyDiscountInput struct {
	StudentID     uuid.UUID
	FeeID         *uuid.UUID
	DiscountName  string
	DiscountType  enum.DiscountType
	DiscountValue decimal.Decimal
	AcademicYear  string
	Reason        *string
}

// ApplyDiscount attaches an adjustment record to a student, optionally scoped
// to one of the student's fees. The fee rows themselves are never mutated.
func (s *DiscountService) ApplyDiscount(ctx context.Context, principal entity.Principal, input *ApplyDiscountInput) (*entity.Discount, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.StudentID == uuid.Nil || input.DiscountName == "" || input.AcademicYear == "" {
		return nil, apperror.NewValidationError("student_id, discount_name, discount_type, discount_value and academic_year are required")
	}
	if !input.DiscountType.Valid() {
		return nil, apperror.NewValidationError("discount_type must be percentage or fixed")
	}
	if input.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.NewValidationError("discount_value must be greater than zero")
	}
	if input.DiscountType == enum.DiscountTypePercentage && input.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperror.NewValidationError("percentage discount cannot exceed 100")
	}

	if input.FeeID != nil {
		fee, err := s.feeRepo.GetForStudentByID(ctx, *input.FeeID, input.StudentID)
		if err != nil {
			return nil, err
		}
		if fee == nil {
			return nil, apperror.NewNotFoundError("Fee")
		}
	}

	discount := &entity.Discount{
		StudentID:     input.StudentID,
		FeeID:         input.FeeID,
		DiscountName:  input.DiscountName,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		AcademicYear:  input.AcademicYear,
		Reason:        input.Reason,
		CreatedBy:     principal.ID,
	}

	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return nil, err
	}
	return discount, nil
}

// ListForStudent returns the student's discounts, optionally filtered by
// academic year
func (s *DiscountService) ListForStudent(ctx context.Context, principal entity.Principal, studentID uuid.UUID, academicYear *string) ([]entity.Discount, error) {
	if err := s.access.canView(ctx, principal, studentID); err != nil {
		return nil, err
	}
	return s.discountRepo.ListForStudent(ctx, studentID, academicYear)
}

// DeleteDiscount removes a discount record
func (s *DiscountService) DeleteDiscount(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if discount == nil {
		return apperror.NewNotFoundError("Discount")
	}

	return s.discountRepo.Delete(ctx, id)
}
