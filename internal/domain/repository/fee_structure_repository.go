package repository

import (
	"context"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/google/uuid"
)

// FeeStructureRepository defines the interface for fee structure data operations
type FeeStructureRepository interface {
	Create(ctx context.Context, structure *entity.FeeStructure) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FeeStructure, error)
	// ListAll returns every structure ordered by academic year desc, then standard.
	ListAll(ctx context.Context) ([]entity.FeeStructure, error)
	// ListByStandard returns active structures for a standard, optionally
	// filtered by academic year.
	ListByStandard(ctx context.Context, standard string, academicYear *string) ([]entity.FeeStructure, error)
	Update(ctx context.Context, structure *entity.FeeStructure) error
	Delete(ctx context.Context, id uuid.UUID) error
}
