package repository

import (
	"context"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/google/uuid"
)

// DiscountRepository defines the interface for discount data operations
type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error)
	// ListForStudent returns the student's discounts, optionally filtered by
	// academic year.
	ListForStudent(ctx context.Context, studentID uuid.UUID, academicYear *string) ([]entity.Discount, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
