package service

import (
	"context"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeStructureService handles fee structure catalog operations
type FeeStructureService struct {
	structureRepo repository.FeeStructureRepository
	feeRepo       repository.FeeRepository
}

// NewFeeStructureService creates a new fee structure service
func NewFeeStructureService(
	structureRepo repository.FeeStructureRepository,
	feeRepo repository.FeeRepository,
) *FeeStructureService {
	return &FeeStructureService{
		structureRepo: structureRepo,
		feeRepo:       feeRepo,
	}
}

// CreateFeeStructureInput represents the create fee structure input
type CreateFeeStructureInput struct {
	Standard     string
	FeeName      string
	Amount       decimal.Decimal
	AcademicYear string
	DueDate      *time.Time
	IsMandatory  *bool
}

// CreateFeeStructure creates a new fee template for a standard and year
func (s *FeeStructureService) CreateFeeStructure(ctx context.Context, principal entity.Principal, input *CreateFeeStructureInput) (*entity.FeeStructure, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.Standard == "" || input.FeeName == "" || input.AcademicYear == "" {
		return nil, apperror.NewValidationError("standard, fee_name, amount and academic_year are required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.NewValidationError("amount must be greater than zero")
	}

	isMandatory := true
	if input.IsMandatory != nil {
		isMandatory = *input.IsMandatory
	}

	structure := &entity.FeeStructure{
		Standard:     input.Standard,
		FeeName:      input.FeeName,
		Amount:       input.Amount,
		AcademicYear: input.AcademicYear,
		DueDate:      input.DueDate,
		IsMandatory:  isMandatory,
		IsActive:     true,
		CreatedBy:    principal.ID,
	}

	if err := s.structureRepo.Create(ctx, structure); err != nil {
		return nil, err
	}
	return structure, nil
}

// ListFeeStructures lists every structure, newest academic year first
func (s *FeeStructureService) ListFeeStructures(ctx context.Context, principal entity.Principal) ([]entity.FeeStructure, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.structureRepo.ListAll(ctx)
}

// ListByStandard lists active structures for a standard, optionally scoped
// to one academic year
func (s *FeeStructureService) ListByStandard(ctx context.Context, principal entity.Principal, standard string, academicYear *string) ([]entity.FeeStructure, error) {
	if standard == "" {
		return nil, apperror.NewValidationError("standard is required")
	}
	return s.structureRepo.ListByStandard(ctx, standard, academicYear)
}

// UpdateFeeStructureInput represents the patchable fields of a fee structure.
// Standard is deliberately not patchable; reassigning a template across
// standards would orphan existing ledger entries.
type UpdateFeeStructureInput struct {
	FeeName      *string
	Amount       *decimal.Decimal
	AcademicYear *string
	DueDate      *time.Time
	IsMandatory  *bool
	IsActive     *bool
}

func (i *UpdateFeeStructureInput) empty() bool {
	return i.FeeName == nil && i.Amount == nil && i.AcademicYear == nil &&
		i.DueDate == nil && i.IsMandatory == nil && i.IsActive == nil
}

// UpdateFeeStructure patches only the supplied fields
func (s *FeeStructureService) UpdateFeeStructure(ctx context.Context, principal entity.Principal, id uuid.UUID, input *UpdateFeeStructureInput) (*entity.FeeStructure, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, apperror.NewValidationError("no fields to update")
	}

	structure, err := s.structureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if structure == nil {
		return nil, apperror.NewNotFoundError("Fee structure")
	}

	if input.FeeName != nil {
		structure.FeeName = *input.FeeName
	}
	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, apperror.NewValidationError("amount must be greater than zero")
		}
		structure.Amount = *input.Amount
	}
	if input.AcademicYear != nil {
		structure.AcademicYear = *input.AcademicYear
	}
	if input.DueDate != nil {
		structure.DueDate = input.DueDate
	}
	if input.IsMandatory != nil {
		structure.IsMandatory = *input.IsMandatory
	}
	if input.IsActive != nil {
		structure.IsActive = *input.IsActive
	}

	if err := s.structureRepo.Update(ctx, structure); err != nil {
		return nil, err
	}
	return structure, nil
}

// DeleteFeeStructure hard-deletes a structure that no ledger entry references
func (s *FeeStructureService) DeleteFeeStructure(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	structure, err := s.structureRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if structure == nil {
		return apperror.NewNotFoundError("Fee structure")
	}

	count, err := s.feeRepo.CountByStructure(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewConflictError("Fee structure is already assigned to students")
	}

	return s.structureRepo.Delete(ctx, id)
}
