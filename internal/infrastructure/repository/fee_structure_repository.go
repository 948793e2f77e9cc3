package repository

import (
	"context"
	"errors"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	domainRepo "github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type feeStructureRepository struct {
	db *gorm.DB
}

// NewFeeStructureRepository creates a new fee structure repository
func NewFeeStructureRepository(db *gorm.DB) domainRepo.FeeStructureRepository {
	return &feeStructureRepository{db: db}
}

func (r *feeStructureRepository) Create(ctx context.Context, structure *entity.FeeStructure) error {
	return r.db.WithContext(ctx).Create(structure).Error
}

func (r *feeStructureRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.FeeStructure, error) {
	var structure entity.FeeStructure
	err := r.db.WithContext(ctx).First(&structure, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &structure, err
}

func (r *feeStructureRepository) ListAll(ctx context.Context) ([]entity.FeeStructure, error) {
	var structures []entity.FeeStructure
	err := r.db.WithContext(ctx).
		Order("academic_year DESC, standard ASC").
		Find(&structures).Error
	return structures, err
}

func (r *feeStructureRepository) ListByStandard(ctx context.Context, standard string, academicYear *string) ([]entity.FeeStructure, error) {
	var structures []entity.FeeStructure
	query := r.db.WithContext(ctx).
		Where("standard = ? AND is_active = ?", standard, true)
	if academicYear != nil {
		query = query.Where("academic_year = ?", *academicYear)
	}
	err := query.Order("fee_name ASC").Find(&structures).Error
	return structures, err
}

func (r *feeStructureRepository) Update(ctx context.Context, structure *entity.FeeStructure) error {
	return r.db.WithContext(ctx).Save(structure).Error
}

func (r *feeStructureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.FeeStructure{}, "id = ?", id).Error
}
