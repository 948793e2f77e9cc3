package repository

import (
	"context"
	"errors"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	domainRepo "github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *gorm.DB) domainRepo.DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *discountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	var discount entity.Discount
	err := r.db.WithContext(ctx).First(&discount, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &discount, err
}

func (r *discountRepository) ListForStudent(ctx context.Context, studentID uuid.UUID, academicYear *string) ([]entity.Discount, error) {
	var discounts []entity.Discount
	query := r.db.WithContext(ctx).Where("student_id = ?", studentID)
	if academicYear != nil {
		query = query.Where("academic_year = ?", *academicYear)
	}
	err := query.Order("created_at DESC").Find(&discounts).Error
	return discounts, err
}

func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Discount{}, "id = ?", id).Error
}
