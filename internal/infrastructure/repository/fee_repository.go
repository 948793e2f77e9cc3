package repository

import (
	"context"
	"errors"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	domainRepo "github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository creates a new fee repository
func NewFeeRepository(db *gorm.DB) domainRepo.FeeRepository {
	return &feeRepository{db: db}
}

func (r *feeRepository) Create(ctx context.Context, fee *entity.Fee) error {
	err := r.db.WithContext(ctx).Create(fee).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateAssignment
	}
	return err
}

func (r *feeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Fee, error) {
	var fee entity.Fee
	err := r.db.WithContext(ctx).
		Preload("FeeStructure").
		First(&fee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fee, err
}

func (r *feeRepository) GetForStudentByID(ctx context.Context, id, studentID uuid.UUID) (*entity.Fee, error) {
	var fee entity.Fee
	err := r.db.WithContext(ctx).
		First(&fee, "id = ? AND student_id = ?", id, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fee, err
}

func (r *feeRepository) GetByIDsForStudent(ctx context.Context, ids []uuid.UUID, studentID uuid.UUID) ([]entity.Fee, error) {
	var fees []entity.Fee
	err := r.db.WithContext(ctx).
		Preload("FeeStructure").
		Where("id IN ? AND student_id = ?", ids, studentID).
		Find(&fees).Error
	return fees, err
}

func (r *feeRepository) ListForStudent(ctx context.Context, studentID uuid.UUID, academicYear *string) ([]entity.Fee, error) {
	var fees []entity.Fee
	query := r.db.WithContext(ctx).
		Preload("FeeStructure").
		Where("student_id = ?", studentID)
	if academicYear != nil {
		query = query.Where("academic_year = ?", *academicYear)
	}
	err := query.Order("due_date ASC NULLS LAST, created_at ASC").Find(&fees).Error
	return fees, err
}

func (r *feeRepository) ListByClass(ctx context.Context, standard, academicYear string, division *string) ([]domainRepo.ClassFeeSummary, error) {
	var fees []entity.Fee
	query := r.db.WithContext(ctx).
		Joins("Student").
		Preload("FeeStructure").
		Where("fees.academic_year = ?", academicYear).
		Where(`"Student".standard = ?`, standard)
	if division != nil {
		query = query.Where(`"Student".division = ?`, *division)
	}
	if err := query.Order(`"Student".name ASC, fees.created_at ASC`).Find(&fees).Error; err != nil {
		return nil, err
	}

	// Group ledger entries per student, accumulating totals in order of
	// first appearance.
	index := make(map[uuid.UUID]int)
	summaries := make([]domainRepo.ClassFeeSummary, 0)
	for _, fee := range fees {
		i, ok := index[fee.StudentID]
		if !ok {
			summary := domainRepo.ClassFeeSummary{
				StudentID:    fee.StudentID,
				StudentName:  fee.Student.Name,
				Standard:     standard,
				TotalDue:     decimal.Zero,
				TotalPaid:    decimal.Zero,
				TotalBalance: decimal.Zero,
			}
			if fee.Student.Division != nil {
				summary.Division = *fee.Student.Division
			}
			summaries = append(summaries, summary)
			i = len(summaries) - 1
			index[fee.StudentID] = i
		}
		summaries[i].TotalDue = summaries[i].TotalDue.Add(fee.TotalAmount)
		summaries[i].TotalPaid = summaries[i].TotalPaid.Add(fee.PaidAmount)
		summaries[i].TotalBalance = summaries[i].TotalBalance.Add(fee.Balance)
		summaries[i].Fees = append(summaries[i].Fees, fee)
	}
	return summaries, nil
}

func (r *feeRepository) Update(ctx context.Context, fee *entity.Fee) error {
	return r.db.WithContext(ctx).Save(fee).Error
}

func (r *feeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Fee{}, "id = ?", id).Error
}

func (r *feeRepository) CountByStructure(ctx context.Context, structureID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Fee{}).
		Where("fee_structure_id = ?", structureID).
		Count(&count).Error
	return count, err
}

func (r *feeRepository) ExistsAssignment(ctx context.Context, studentID, structureID uuid.UUID, academicYear string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Fee{}).
		Where("student_id = ? AND fee_structure_id = ? AND academic_year = ?", studentID, structureID, academicYear).
		Count(&count).Error
	return count > 0, err
}
