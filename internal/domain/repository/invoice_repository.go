package repository

import (
	"context"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/google/uuid"
)

// InvoiceFilterParams filters class-level invoice listings
type InvoiceFilterParams struct {
	Standard *string
	Division *string
	Status   *enum.InvoiceStatus
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// CreateWithItems allocates the invoice number from the per-period
	// sequence and inserts header and items in one transaction; any failure
	// rolls back everything including the sequence bump.
	CreateWithItems(ctx context.Context, invoice *entity.Invoice, items []entity.InvoiceItem) error
	// GetByID returns the invoice with items and each item's live fee state.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Invoice, error)
	ListByClass(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.InvoiceStatus) error
	// Delete removes items then header in one transaction; referenced fees
	// and payments are untouched.
	Delete(ctx context.Context, id uuid.UUID) error
}
