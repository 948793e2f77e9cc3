package service

import (
	"context"
	"errors"
	"time"

	"github.com/edusuite/school-fees-api/internal/config"
	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeService handles student fee ledger operations
type FeeService struct {
	feeRepo       repository.FeeRepository
	structureRepo repository.FeeStructureRepository
	userRepo      repository.UserRepository
	paymentRepo   repository.PaymentRepository
	discountRepo  repository.DiscountRepository
	access        *studentAccess
	feesCfg       config.FeesConfig
}

// NewFeeService creates a new fee service
func NewFeeService(
	feeRepo repository.FeeRepository,
	structureRepo repository.FeeStructureRepository,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	discountRepo repository.DiscountRepository,
	parentLinkRepo repository.ParentLinkRepository,
	feesCfg config.FeesConfig,
) *FeeService {
	return &FeeService{
		feeRepo:       feeRepo,
		structureRepo: structureRepo,
		userRepo:      userRepo,
		paymentRepo:   paymentRepo,
		discountRepo:  discountRepo,
		access:        newStudentAccess(parentLinkRepo),
		feesCfg:       feesCfg,
	}
}

// AssignFeeInput represents the single-assignment input
type AssignFeeInput struct {
	StudentID      uuid.UUID
	FeeStructureID uuid.UUID
	AcademicYear   string
	DueDate        *time.Time
	Notes          *string
}

// AssignFee instantiates one ledger entry from a fee structure. Assigning the
// same (student, structure, year) triple twice fails with a conflict.
func (s *FeeService) AssignFee(ctx context.Context, principal entity.Principal, input *AssignFeeInput) (*entity.Fee, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.StudentID == uuid.Nil || input.FeeStructureID == uuid.Nil || input.AcademicYear == "" {
		return nil, apperror.NewValidationError("student_id, fee_structure_id and academic_year are required")
	}

	structure, err := s.structureRepo.GetByID(ctx, input.FeeStructureID)
	if err != nil {
		return nil, err
	}
	if structure == nil {
		return nil, apperror.NewNotFoundError("Fee structure")
	}

	student, err := s.userRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != enum.RoleStudent {
		return nil, apperror.NewNotFoundError("Student")
	}

	exists, err := s.feeRepo.ExistsAssignment(ctx, input.StudentID, input.FeeStructureID, input.AcademicYear)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewConflictError("Fee is already assigned to this student for the academic year")
	}

	dueDate := input.DueDate
	if dueDate == nil {
		dueDate = structure.DueDate
	}

	fee := &entity.Fee{
		StudentID:      input.StudentID,
		FeeStructureID: &structure.ID,
		TotalAmount:    structure.Amount,
		PaidAmount:     decimal.Zero,
		Balance:        structure.Amount,
		DueDate:        dueDate,
		AcademicYear:   input.AcademicYear,
		Status:         enum.FeeStatusPending,
		Notes:          input.Notes,
	}

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		if errors.Is(err, repository.ErrDuplicateAssignment) {
			return nil, apperror.NewConflictError("Fee is already assigned to this student for the academic year")
		}
		return nil, err
	}
	return fee, nil
}

// AddAdhocFeeInput represents a direct ledger entry not backed by a structure
type AddAdhocFeeInput struct {
	StudentID    uuid.UUID
	FeeType      string
	TotalAmount  decimal.Decimal
	AcademicYear string
	DueDate      *time.Time
	Notes        *string
}

// AddAdhocFee creates a ledger entry with no backing fee structure
func (s *FeeService) AddAdhocFee(ctx context.Context, principal entity.Principal, input *AddAdhocFeeInput) (*entity.Fee, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.StudentID == uuid.Nil || input.FeeType == "" || input.AcademicYear == "" {
		return nil, apperror.NewValidationError("student_id, fee_type, total_amount and academic_year are required")
	}
	if input.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.NewValidationError("total_amount must be greater than zero")
	}

	student, err := s.userRepo.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Role != enum.RoleStudent {
		return nil, apperror.NewNotFoundError("Student")
	}

	fee := &entity.Fee{
		StudentID:    input.StudentID,
		TotalAmount:  input.TotalAmount,
		PaidAmount:   decimal.Zero,
		Balance:      input.TotalAmount,
		DueDate:      input.DueDate,
		AcademicYear: input.AcademicYear,
		Status:       enum.FeeStatusPending,
		FeeType:      &input.FeeType,
		Notes:        input.Notes,
	}

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// BulkAssignInput represents the bulk assignment input
type BulkAssignInput struct {
	Standard       string
	Division       *string
	FeeStructureID uuid.UUID
	AcademicYear   string
	DueDate        *time.Time
}

// BulkAssignResult reports the outcome for one student in a bulk assignment
type BulkAssignResult struct {
	StudentID   uuid.UUID  `json:"student_id"`
	StudentName string     `json:"student_name"`
	FeeID       *uuid.UUID `json:"fee_id,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// AssignFeeBulk assigns a structure to every student of a class and reports a
// per-student result list. Students already holding the assignment fail
// individually; the rest succeed.
func (s *FeeService) AssignFeeBulk(ctx context.Context, principal entity.Principal, input *BulkAssignInput) ([]BulkAssignResult, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.Standard == "" || input.FeeStructureID == uuid.Nil || input.AcademicYear == "" {
		return nil, apperror.NewValidationError("standard, fee_structure_id and academic_year are required")
	}

	structure, err := s.structureRepo.GetByID(ctx, input.FeeStructureID)
	if err != nil {
		return nil, err
	}
	if structure == nil {
		return nil, apperror.NewNotFoundError("Fee structure")
	}

	students, err := s.userRepo.ListStudentsByClass(ctx, input.Standard, input.Division)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, apperror.NewNotFoundError("Students for the class")
	}

	dueDate := input.DueDate
	if dueDate == nil {
		dueDate = structure.DueDate
	}

	results := make([]BulkAssignResult, 0, len(students))
	for _, student := range students {
		result := BulkAssignResult{StudentID: student.ID, StudentName: student.Name}

		fee := &entity.Fee{
			StudentID:      student.ID,
			FeeStructureID: &structure.ID,
			TotalAmount:    structure.Amount,
			PaidAmount:     decimal.Zero,
			Balance:        structure.Amount,
			DueDate:        dueDate,
			AcademicYear:   input.AcademicYear,
			Status:         enum.FeeStatusPending,
		}

		if err := s.feeRepo.Create(ctx, fee); err != nil {
			if errors.Is(err, repository.ErrDuplicateAssignment) {
				result.Error = "already assigned"
			} else {
				result.Error = "failed to assign"
			}
		} else {
			result.FeeID = &fee.ID
		}
		results = append(results, result)
	}
	return results, nil
}

// StudentFee is a ledger entry annotated with its payments, its applicable
// discounts and, when the discount policy is on, the effective balance after
// fee-scoped discounts.
type StudentFee struct {
	entity.Fee
	Payments         []entity.Payment `json:"payments"`
	Discounts        []entity.Discount `json:"discounts"`
	EffectiveBalance *decimal.Decimal  `json:"effective_balance,omitempty"`
}

// StudentFeeLedger is the joined per-student view of fees, payments and
// discounts. TotalEffectiveBalance subtracts student-wide discounts once at
// the ledger level so they are never applied per fee.
type StudentFeeLedger struct {
	StudentID             uuid.UUID         `json:"student_id"`
	Fees                  []StudentFee      `json:"fees"`
	Discounts             []entity.Discount `json:"discounts"`
	TotalBalance          decimal.Decimal   `json:"total_balance"`
	TotalEffectiveBalance *decimal.Decimal  `json:"total_effective_balance,omitempty"`
}

// GetForStudent returns the student's ledger with payments and discounts
// attached to each fee
func (s *FeeService) GetForStudent(ctx context.Context, principal entity.Principal, studentID uuid.UUID, academicYear *string) (*StudentFeeLedger, error) {
	if err := s.access.canView(ctx, principal, studentID); err != nil {
		return nil, err
	}

	fees, err := s.feeRepo.ListForStudent(ctx, studentID, academicYear)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	discounts, err := s.discountRepo.ListForStudent(ctx, studentID, academicYear)
	if err != nil {
		return nil, err
	}

	ledger := &StudentFeeLedger{
		StudentID:    studentID,
		Fees:         make([]StudentFee, 0, len(fees)),
		Discounts:    discounts,
		TotalBalance: decimal.Zero,
	}

	totalAmount := decimal.Zero
	for _, fee := range fees {
		annotated := StudentFee{Fee: fee}
		for _, payment := range payments {
			if payment.FeeID == fee.ID {
				annotated.Payments = append(annotated.Payments, payment)
			}
		}
		for _, discount := range discounts {
			if discount.AppliesTo(fee.ID) {
				annotated.Discounts = append(annotated.Discounts, discount)
			}
		}

		if s.feesCfg.ApplyDiscounts {
			effective := fee.Balance
			for _, discount := range discounts {
				if discount.FeeID != nil && *discount.FeeID == fee.ID {
					effective = effective.Sub(discount.AmountAgainst(fee.TotalAmount))
				}
			}
			if effective.LessThan(decimal.Zero) {
				effective = decimal.Zero
			}
			annotated.EffectiveBalance = &effective
		}

		ledger.TotalBalance = ledger.TotalBalance.Add(fee.Balance)
		totalAmount = totalAmount.Add(fee.TotalAmount)
		ledger.Fees = append(ledger.Fees, annotated)
	}

	if s.feesCfg.ApplyDiscounts {
		totalEffective := decimal.Zero
		for _, fee := range ledger.Fees {
			totalEffective = totalEffective.Add(*fee.EffectiveBalance)
		}
		// Student-wide discounts come off the ledger total exactly once;
		// percentages resolve against the raw total of all fees.
		for _, discount := range discounts {
			if discount.FeeID == nil {
				totalEffective = totalEffective.Sub(discount.AmountAgainst(totalAmount))
			}
		}
		if totalEffective.LessThan(decimal.Zero) {
			totalEffective = decimal.Zero
		}
		ledger.TotalEffectiveBalance = &totalEffective
	}

	return ledger, nil
}

// GetByClass groups ledger entries per student for one class
func (s *FeeService) GetByClass(ctx context.Context, principal entity.Principal, standard, academicYear string, division *string) ([]repository.ClassFeeSummary, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if standard == "" || academicYear == "" {
		return nil, apperror.NewValidationError("standard and academic_year are required")
	}
	return s.feeRepo.ListByClass(ctx, standard, academicYear, division)
}

// UpdateFeeInput represents the patchable fields of a ledger entry
type UpdateFeeInput struct {
	TotalAmount *decimal.Decimal
	DueDate     *time.Time
	Notes       *string
}

// UpdateFee patches the supplied fields and recomputes balance and status for
// the affected entry. Status is always derived, never set directly.
func (s *FeeService) UpdateFee(ctx context.Context, principal entity.Principal, id uuid.UUID, input *UpdateFeeInput) (*entity.Fee, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.TotalAmount == nil && input.DueDate == nil && input.Notes == nil {
		return nil, apperror.NewValidationError("no fields to update")
	}

	fee, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, apperror.NewNotFoundError("Fee")
	}

	if input.TotalAmount != nil {
		if input.TotalAmount.LessThan(fee.PaidAmount) {
			return nil, apperror.NewValidationError("total_amount cannot be less than the amount already paid")
		}
		fee.TotalAmount = *input.TotalAmount
	}
	if input.DueDate != nil {
		fee.DueDate = input.DueDate
	}
	if input.Notes != nil {
		fee.Notes = input.Notes
	}

	fee.Balance = fee.TotalAmount.Sub(fee.PaidAmount)
	fee.RecomputeStatus(time.Now())

	if err := s.feeRepo.Update(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// DeleteFee removes a ledger entry that has no recorded payments
func (s *FeeService) DeleteFee(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	fee, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if fee == nil {
		return apperror.NewNotFoundError("Fee")
	}

	payments, err := s.paymentRepo.ListByFeeIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if len(payments) > 0 {
		return apperror.NewConflictError("Fee has recorded payments and cannot be deleted")
	}

	return s.feeRepo.Delete(ctx, id)
}
