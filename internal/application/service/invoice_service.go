package service

import (
	"context"
	"time"

	"github.com/edusuite/school-fees-api/internal/domain/entity"
	"github.com/edusuite/school-fees-api/internal/domain/enum"
	"github.com/edusuite/school-fees-api/internal/domain/repository"
	"github.com/edusuite/school-fees-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice generation and lookup
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	feeRepo     repository.FeeRepository
	paymentRepo repository.PaymentRepository
	access      *studentAccess
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	feeRepo repository.FeeRepository,
	paymentRepo repository.PaymentRepository,
	parentLinkRepo repository.ParentLinkRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		feeRepo:     feeRepo,
		paymentRepo: paymentRepo,
		access:      newStudentAccess(parentLinkRepo),
	}
}

// CreateInvoiceInput represents the create invoice input. InvoiceDate
// defaults to now; a backdated value places the invoice in that month's
// numbering sequence.
type CreateInvoiceInput struct {
	StudentID   uuid.UUID
	FeeIDs      []uuid.UUID
	InvoiceDate *time.Time
	DueDate     *time.Time
	Notes       *string
}

// InvoiceDetail is an invoice together with the payments recorded against its
// underlying fees
type InvoiceDetail struct {
	Invoice  *entity.Invoice  `json:"invoice"`
	Payments []entity.Payment `json:"payments"`
}

// CreateInvoice snapshots the current balances of the selected fees into a
// numbered billing document. Fee ids that do not belong to the student are
// dropped; if nothing remains the invoice is not created.
func (s *InvoiceService) CreateInvoice(ctx context.Context, principal entity.Principal, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if input.StudentID == uuid.Nil || len(input.FeeIDs) == 0 {
		return nil, apperror.NewValidationError("student_id and fee_ids are required")
	}

	fees, err := s.feeRepo.GetByIDsForStudent(ctx, input.FeeIDs, input.StudentID)
	if err != nil {
		return nil, err
	}
	if len(fees) == 0 {
		return nil, apperror.NewNotFoundError("Fees for this student")
	}

	total := decimal.Zero
	items := make([]entity.InvoiceItem, 0, len(fees))
	for _, fee := range fees {
		items = append(items, entity.InvoiceItem{
			FeeID:   fee.ID,
			FeeName: feeDisplayName(&fee),
			Amount:  fee.Balance,
		})
		total = total.Add(fee.Balance)
	}

	invoiceDate := time.Now()
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	}

	invoice := &entity.Invoice{
		StudentID:   input.StudentID,
		InvoiceDate: invoiceDate,
		DueDate:     input.DueDate,
		TotalAmount: total,
		Status:      enum.InvoiceStatusIssued,
		Notes:       input.Notes,
		CreatedBy:   principal.ID,
	}

	if err := s.invoiceRepo.CreateWithItems(ctx, invoice, items); err != nil {
		return nil, err
	}
	return invoice, nil
}

// GetByIdentifier looks up an invoice by id or by invoice number and attaches
// the payments recorded against its underlying fees
func (s *InvoiceService) GetByIdentifier(ctx context.Context, principal entity.Principal, identifier string) (*InvoiceDetail, error) {
	if identifier == "" {
		return nil, apperror.NewValidationError("invoice identifier is required")
	}

	var invoice *entity.Invoice
	var err error
	if id, parseErr := uuid.Parse(identifier); parseErr == nil {
		invoice, err = s.invoiceRepo.GetByID(ctx, id)
	} else {
		invoice, err = s.invoiceRepo.GetByNumber(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := s.access.canView(ctx, principal, invoice.StudentID); err != nil {
		return nil, err
	}

	feeIDs := make([]uuid.UUID, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		feeIDs = append(feeIDs, item.FeeID)
	}
	payments, err := s.paymentRepo.ListByFeeIDs(ctx, feeIDs)
	if err != nil {
		return nil, err
	}

	return &InvoiceDetail{Invoice: invoice, Payments: payments}, nil
}

// ListForStudent returns the student's invoices newest-first
func (s *InvoiceService) ListForStudent(ctx context.Context, principal entity.Principal, studentID uuid.UUID) ([]entity.Invoice, error) {
	if err := s.access.canView(ctx, principal, studentID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListForStudent(ctx, studentID)
}

// ListByClass returns invoices for a class, optionally filtered by division
// and status
func (s *InvoiceService) ListByClass(ctx context.Context, principal entity.Principal, params *repository.InvoiceFilterParams) ([]entity.Invoice, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListByClass(ctx, params)
}

// UpdateStatus transitions an invoice's lifecycle status
func (s *InvoiceService) UpdateStatus(ctx context.Context, principal entity.Principal, id uuid.UUID, status enum.InvoiceStatus) (*entity.Invoice, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperror.NewValidationError("status must be one of issued, partially_paid, paid, overdue, cancelled")
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	invoice.Status = status
	return invoice, nil
}

// DeleteInvoice removes the invoice and its items. The referenced fees and
// payments are untouched.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	return s.invoiceRepo.Delete(ctx, id)
}

// feeDisplayName resolves a human readable label for a ledger entry: the
// structure's fee name when the fee was instantiated from one, otherwise the
// ad hoc fee type.
func feeDisplayName(fee *entity.Fee) string {
	if fee.FeeStructure != nil {
		return fee.FeeStructure.FeeName
	}
	if fee.FeeType != nil {
		return *fee.FeeType
	}
	return "Fee"
}
