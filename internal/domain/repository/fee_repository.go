package repository

import (
	"context"
	"errors"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicateAssignment is returned by Fee creation when the
// (student, fee structure, academic year) triple already has a ledger entry.
var ErrDuplicateAssignment = errors.New("fee already assigned for this student, structure and academic year")

// ClassFeeSummary aggregates a student's ledger across one class listing
type ClassFeeSummary struct {
	StudentID    uuid.UUID       `json:"student_id"`
	StudentName  string          `json:"student_name"`
	Standard     string          `json:"standard"`
	Division     string          `json:"division"`
	TotalDue     decimal.Decimal `json:"total_due"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	Fees         []entity.Fee    `json:"fees"`
}

// FeeRepository defines the interface for fee ledger data operations
type FeeRepository interface {
	// Create inserts a ledger entry; ErrDuplicateAssignment is returned when
	// the assignment unique index rejects the row.
	Create(ctx context.Context, fee *entity.Fee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Fee, error)
	// GetForStudentByID returns the fee only when it belongs to the student.
	GetForStudentByID(ctx context.Context, id, studentID uuid.UUID) (*entity.Fee, error)
	// GetByIDsForStudent returns the subset of the given fees that belong to
	// the student; unknown or foreign ids are silently dropped.
	GetByIDsForStudent(ctx context.Context, ids []uuid.UUID, studentID uuid.UUID) ([]entity.Fee, error)
	// ListForStudent returns the student's fees with structures preloaded,
	// optionally filtered by academic year.
	ListForStudent(ctx context.Context, studentID uuid.UUID, academicYear *string) ([]entity.Fee, error)
	// ListByClass groups ledger entries per student of a class.
	ListByClass(ctx context.Context, standard, academicYear string, division *string) ([]ClassFeeSummary, error)
	Update(ctx context.Context, fee *entity.Fee) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountByStructure counts ledger entries instantiated from a structure
	// (referential guard for structure deletion).
	CountByStructure(ctx context.Context, structureID uuid.UUID) (int64, error)
	// ExistsAssignment reports whether the triple already has a ledger entry.
	ExistsAssignment(ctx context.Context, studentID, structureID uuid.UUID, academicYear string) (bool, error)
}
