package repository

import (
	"context"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListStudentsByClass returns students of a standard, optionally narrowed
	// to one division.
	ListStudentsByClass(ctx context.Context, standard string, division *string) ([]entity.User, error)
}

// ParentLinkRepository defines the interface for parent-student link operations
type ParentLinkRepository interface {
	Create(ctx context.Context, link *entity.ParentLink) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ParentLink, error)
	// Exists reports whether the parent is linked to the student.
	Exists(ctx context.Context, parentID, studentID uuid.UUID) (bool, error)
}
